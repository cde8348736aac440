package boxpull

import "github.com/opencontainers/go-digest"

// ProgressEvent is a progress update for one layer download task.
//
// Events for a given task are delivered in order: zero or more byte-count
// updates followed by a final event with Done set. Events from different
// tasks interleave arbitrarily.
type ProgressEvent struct {
	// Task is the 1-based task index, assigned in manifest order.
	Task int

	// TaskTotal is the displayed task count for the whole pull. Each layer
	// accounts for a download step and an apply step, so this is twice the
	// layer count.
	TaskTotal int

	// Digest identifies the layer being downloaded.
	Digest digest.Digest

	// BytesDone is the number of bytes copied so far.
	BytesDone int64

	// BytesTotal is the blob's content length, or -1 when unknown.
	BytesTotal int64

	// Done marks the task's final event. The task's indicator should be
	// completed and removed from display.
	Done bool
}

// ProgressFunc receives progress updates during a pull.
// Implementations must be safe for concurrent calls.
type ProgressFunc func(ProgressEvent)
