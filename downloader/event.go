package downloader

import (
	"github.com/etldl/etldl/segment"
	"github.com/etldl/etldl/source"
)

// Stage is a step of a lecture's pipeline.
type Stage int

const (
	StageResolve Stage = iota + 1
	StageLocate
	StageFetch
	StageAssemble
	StageConvert
)

func (s Stage) String() string {
	switch s {
	case StageResolve:
		return "resolving stream"
	case StageLocate:
		return "counting segments"
	case StageFetch:
		return "fetching segments"
	case StageAssemble:
		return "assembling"
	case StageConvert:
		return "converting"
	default:
		return "unknown"
	}
}

type EventKind int

const (
	EventStart EventKind = iota + 1
	EventStage
	EventSegment
	EventFinish
)

// Event reports pipeline progress. Only the fields relevant to Kind are set.
type Event struct {
	Kind  EventKind
	Video *source.Video

	// Stage is set for EventStage.
	Stage Stage
	// Count is the number of segments, set once they have been located.
	Count int
	// Segment is set for EventSegment.
	Segment segment.Result
	// Outcome is set for EventFinish.
	Outcome *Outcome
}
