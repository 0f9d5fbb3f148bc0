// Package downloader runs the per-lecture pipeline for a course: skip check,
// stream resolution, segment counting, fetching, assembly and conversion.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/history"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/segment"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/util"
	"github.com/etldl/etldl/where"
	"github.com/etldl/etldl/workspace"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Converter turns an assembled raw stream into the final file.
type Converter interface {
	Convert(ctx context.Context, in, out string) error
	Available() bool
}

// Orchestrator downloads the lectures of a course.
type Orchestrator struct {
	Portal  source.Portal
	Locator *segment.Locator
	Fetcher *segment.Fetcher

	// Converter may be nil, in which case raw streams are kept as the result.
	Converter Converter

	Layout workspace.Layout

	// Parallel is the number of lectures processed at once. Above 1 every
	// lecture is staged in its own workspace.
	Parallel    int
	KeepRaw     bool
	SaveHistory bool

	// OnEvent receives progress. It is called concurrently when Parallel > 1.
	OnEvent func(Event)
}

// New returns an orchestrator configured from the download.* and history.* settings.
func New(portal source.Portal, client segment.Doer, converter Converter) *Orchestrator {
	return &Orchestrator{
		Portal:      portal,
		Locator:     segment.NewLocator(client),
		Fetcher:     segment.NewFetcher(client),
		Converter:   converter,
		Layout:      workspace.Layout{Root: where.Downloads()},
		Parallel:    viper.GetInt(key.DownloadParallel),
		KeepRaw:     viper.GetBool(key.DownloadKeepRaw),
		SaveHistory: viper.GetBool(key.HistorySave),
	}
}

type job struct {
	runID  string
	course *source.Course
}

// Run processes videos of course. A failing lecture is recorded in the
// summary and does not stop the others. Cancelling ctx stops new lectures
// from starting.
func (o *Orchestrator) Run(ctx context.Context, course *source.Course, videos []*source.Video) Summary {
	parallel := util.Max(o.Parallel, 1)

	j := job{
		runID:  uuid.NewString(),
		course: course,
	}
	summary := Summary{
		RunID:    j.runID,
		Course:   course,
		Outcomes: make([]Outcome, len(videos)),
	}

	logger := log.With(log.Fields{"run": j.runID, "course": course.Title})
	logger.Infof("starting %d videos with %d slots", len(videos), parallel)

	if err := workspace.Ensure(o.Layout.CourseDir(course)); err != nil {
		for i, video := range videos {
			summary.Outcomes[i] = Outcome{Video: video, Status: StatusFailed, Err: err}
		}
		return summary
	}

	// a leftover staging area belongs to an interrupted or failed earlier run
	if err := workspace.Purge(o.Layout.CourseTempDir(course)); err != nil {
		logger.Warnf("purge stale workspace: %v", err)
	}

	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup

	for i, video := range videos {
		select {
		case <-ctx.Done():
			summary.Outcomes[i] = Outcome{Video: video, Status: StatusFailed, Err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		if ctx.Err() != nil {
			<-sem
			summary.Outcomes[i] = Outcome{Video: video, Status: StatusFailed, Err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(i int, video *source.Video) {
			defer wg.Done()
			defer func() { <-sem }()

			summary.Outcomes[i] = o.process(ctx, j, video)
		}(i, video)
	}

	wg.Wait()

	if summary.OK() {
		if err := workspace.Purge(o.Layout.CourseTempDir(course)); err != nil {
			logger.Warnf("purge workspace: %v", err)
		}
	}

	logger.Infof(
		"finished: %d downloaded, %d converted, %d skipped, %d empty, %d failed",
		summary.Count(StatusDownloaded),
		summary.Count(StatusConverted),
		summary.Count(StatusSkipped),
		summary.Count(StatusEmpty),
		summary.Count(StatusFailed),
	)
	return summary
}

func (o *Orchestrator) emit(event Event) {
	if o.OnEvent != nil {
		o.OnEvent(event)
	}
}

func (o *Orchestrator) stage(video *source.Video, stage Stage, count int) {
	o.emit(Event{Kind: EventStage, Video: video, Stage: stage, Count: count})
}

func (o *Orchestrator) process(ctx context.Context, j job, video *source.Video) (outcome Outcome) {
	started := time.Now()
	logger := log.With(log.Fields{"run": j.runID, "video": video.Title})

	o.emit(Event{Kind: EventStart, Video: video})
	defer func() {
		outcome.Duration = time.Since(started)
		if outcome.Err != nil {
			logger.Errorf("%s: %v", outcome.Status, outcome.Err)
		} else {
			logger.Infof("%s in %s", outcome.Status, outcome.Duration.Round(time.Millisecond))
		}
		o.emit(Event{Kind: EventFinish, Video: video, Count: outcome.Segments, Outcome: &outcome})
	}()

	outcome.Video = video
	final := o.Layout.FinalPath(j.course, video)
	raw := o.Layout.RawPath(j.course, video)

	if workspace.Exists(final) {
		outcome.Status = StatusSkipped
		outcome.Path = final
		return outcome
	}

	if workspace.Exists(raw) {
		if !o.canConvert() {
			outcome.Status = StatusSkipped
			outcome.Path = raw
			return outcome
		}
		outcome.Status = StatusConverted
		return o.convert(ctx, j, video, raw, final, outcome)
	}

	o.stage(video, StageResolve, 0)
	stream, err := o.Portal.ResolveStream(ctx, video)
	if err != nil {
		return failed(outcome, &ResolutionError{Video: video, Err: err})
	}

	o.stage(video, StageLocate, 0)
	count, err := o.Locator.Locate(ctx, stream)
	if err != nil {
		return failed(outcome, err)
	}
	if err = video.Bind(stream, count); err != nil && !errors.Is(err, source.ErrAlreadyBound) {
		return failed(outcome, err)
	}
	outcome.Segments = count

	if count == 0 {
		outcome.Status = StatusEmpty
		return outcome
	}

	dir := o.Layout.TempDir(j.course, video)
	if err = workspace.Purge(dir); err != nil {
		return failed(outcome, err)
	}
	if err = workspace.Ensure(dir); err != nil {
		return failed(outcome, err)
	}

	o.stage(video, StageFetch, count)
	fetcher := *o.Fetcher
	fetcher.OnSegment = func(result segment.Result) {
		o.emit(Event{Kind: EventSegment, Video: video, Count: count, Segment: result})
	}
	if _, err = fetcher.FetchAll(ctx, stream, count, dir); err != nil {
		return failed(outcome, err)
	}

	o.stage(video, StageAssemble, count)
	n, err := segment.Concat(dir, stream, count, raw)
	if err != nil {
		return failed(outcome, err)
	}
	outcome.Bytes = n

	if err = workspace.Purge(dir); err != nil {
		logger.Warnf("purge workspace: %v", err)
	}

	outcome.Status = StatusDownloaded
	if !o.canConvert() {
		logger.Warn("converter not available, keeping the raw stream")
		outcome.Path = raw
		o.record(j, video, outcome)
		return outcome
	}
	return o.convert(ctx, j, video, raw, final, outcome)
}

func (o *Orchestrator) canConvert() bool {
	return o.Converter != nil && o.Converter.Available()
}

// convert produces final from raw. A failed conversion keeps raw so that the
// next run only has to convert.
func (o *Orchestrator) convert(ctx context.Context, j job, video *source.Video, raw, final string, outcome Outcome) Outcome {
	o.stage(video, StageConvert, outcome.Segments)
	if err := o.Converter.Convert(ctx, raw, final); err != nil {
		return failed(outcome, err)
	}

	if !o.KeepRaw {
		if err := filesystem.API().Remove(raw); err != nil {
			log.Warnf("remove %s: %v", raw, err)
		}
	}

	outcome.Path = final
	outcome.Converted = true
	if stat, err := filesystem.API().Stat(final); err == nil {
		outcome.Bytes = stat.Size()
	}

	o.record(j, video, outcome)
	return outcome
}

func (o *Orchestrator) record(j job, video *source.Video, outcome Outcome) {
	if !o.SaveHistory {
		return
	}

	record := history.NewRecord(j.course, video, outcome.Path)
	record.Bytes = outcome.Bytes
	record.RunID = j.runID
	if err := history.Save(record); err != nil {
		log.Warnf("save history: %v", err)
	}
}

func failed(outcome Outcome, err error) Outcome {
	outcome.Status = StatusFailed
	outcome.Err = err
	return outcome
}

// Describe is a one-line explanation of outcome for the terminal.
func Describe(outcome Outcome) string {
	switch outcome.Status {
	case StatusFailed:
		return fmt.Sprintf("%s: %v", outcome.Video.Title, outcome.Err)
	case StatusEmpty:
		return fmt.Sprintf("%s: no segments", outcome.Video.Title)
	default:
		return fmt.Sprintf("%s: %s", outcome.Video.Title, outcome.Path)
	}
}
