// Package converter turns assembled transport streams into mp4 files with ffmpeg.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/log"
	"github.com/spf13/viper"
)

// ConversionError is a failed converter run. The input is left untouched.
type ConversionError struct {
	Input  string
	Output string
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("convert %s: %v", e.Input, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + lastLine(stderr)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Runner executes name with args and returns everything it printed.
type Runner func(ctx context.Context, name string, args ...string) (output []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	err := cmd.Run()
	return output.Bytes(), err
}

// FFmpeg remuxes a raw stream into an mp4 container.
type FFmpeg struct {
	// Path is the executable name or location.
	Path string
	// Args are extra output options placed before the output file.
	Args []string

	run    Runner
	custom bool
}

// New returns a converter configured from the converter.* settings.
func New() *FFmpeg {
	return &FFmpeg{
		Path: viper.GetString(key.ConverterPath),
		Args: viper.GetStringSlice(key.ConverterArgs),
		run:  execRunner,
	}
}

// WithRunner replaces the process runner.
func (f *FFmpeg) WithRunner(run Runner) *FFmpeg {
	f.run = run
	f.custom = true
	return f
}

// Available reports whether the executable can be found. A real process
// cannot see an in-memory filesystem, so it is unavailable there.
func (f *FFmpeg) Available() bool {
	if !f.custom && !filesystem.IsOs() {
		return false
	}
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// Location is the resolved executable, or false when it is not on PATH.
func (f *FFmpeg) Location() (string, bool) {
	path, err := exec.LookPath(f.Path)
	return path, err == nil
}

// Version is the first line the executable prints for -version,
// e.g. "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers".
func (f *FFmpeg) Version(ctx context.Context) (string, error) {
	run := f.run
	if run == nil {
		run = execRunner
	}

	output, err := run(ctx, f.Path, "-version")
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", f.Path, err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	if line == "" {
		return "", fmt.Errorf("%s -version: no output", f.Path)
	}
	return strings.TrimSpace(line), nil
}

// Convert writes out from in. The result is written next to out and renamed
// into place, so out only exists after a successful run.
func (f *FFmpeg) Convert(ctx context.Context, in, out string) error {
	if _, err := filesystem.API().Stat(in); err != nil {
		return &ConversionError{Input: in, Output: out, Err: err}
	}

	part := out + filesystem.PartSuffix
	args := f.arguments(in, part)

	run := f.run
	if run == nil {
		run = execRunner
	}

	log.With(log.Fields{"input": in, "output": out}).Debugf("%s %s", f.Path, strings.Join(args, " "))
	stderr, err := run(ctx, f.Path, args...)
	if err != nil {
		_ = filesystem.API().Remove(part)
		return &ConversionError{Input: in, Output: out, Stderr: string(stderr), Err: err}
	}

	if exists, _ := filesystem.API().Exists(part); !exists {
		return &ConversionError{Input: in, Output: out, Stderr: string(stderr), Err: errors.New("converter produced no output")}
	}

	if err = filesystem.API().Rename(part, out); err != nil {
		_ = filesystem.API().Remove(part)
		return &ConversionError{Input: in, Output: out, Err: err}
	}
	return nil
}

func (f *FFmpeg) arguments(in, out string) []string {
	args := []string{"-y", "-loglevel", "error", "-i", in}
	args = append(args, f.Args...)
	return append(args, "-f", "mp4", out)
}
