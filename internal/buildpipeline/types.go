// Package buildpipeline defines the progress vocabulary shared by the
// packager and its front ends (plain status lines, the TUI).
package buildpipeline

import "time"

// Stage is a per-file compilation step, or the final pack step.
type Stage string

const (
	StageParse   Stage = "parse"
	StageLower   Stage = "lower"
	StageCodegen Stage = "codegen"
	StagePack    Stage = "pack"
)

// Stages lists the stages in pipeline order.
var Stages = []Stage{StageParse, StageLower, StageCodegen, StagePack}

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached marks a file whose unit came from the build cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a file, or for the whole pack when File is
// empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings accumulates stage durations across files.
type Timings struct {
	stages map[Stage]time.Duration
}

// Add records dur against stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] += dur
}

// Duration returns the recorded total for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Total sums every stage.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.stages {
		total += d
	}
	return total
}

// Merge adds every stage of other into t.
func (t *Timings) Merge(other Timings) {
	for stage, dur := range other.stages {
		t.Add(stage, dur)
	}
}
