package logger

import (
	"time"
)

// ProgressTracker logs progress through a multi-document processing run.
// It is deliberately simple: the run is sequential and document counts are
// small, so interval-based throttling is enough.
type ProgressTracker struct {
	logger    Logger
	operation string
	total     int
	completed int
	failed    int
	started   time.Time
}

// NewProgressTracker creates a tracker for an operation over total items.
func NewProgressTracker(logger Logger, operation string, total int) *ProgressTracker {
	if logger == nil {
		logger = GetGlobalLogger()
	}
	return &ProgressTracker{
		logger:    logger.WithComponent("progress"),
		operation: operation,
		total:     total,
		started:   time.Now(),
	}
}

// Step records one completed item.
func (pt *ProgressTracker) Step(item string) {
	pt.completed++
	pt.logger.WithFields(Fields{
		"operation": pt.operation,
		"item":      item,
		"completed": pt.completed,
		"total":     pt.total,
	}).Debug("Progress")
}

// Fail records one failed item.
func (pt *ProgressTracker) Fail(item string, err error) {
	pt.failed++
	pt.logger.WithError(err).WithFields(Fields{
		"operation": pt.operation,
		"item":      item,
	}).Warn("Item failed")
}

// Finish logs a summary of the run.
func (pt *ProgressTracker) Finish() {
	pt.logger.WithFields(Fields{
		"operation": pt.operation,
		"completed": pt.completed,
		"failed":    pt.failed,
		"total":     pt.total,
		"elapsed":   time.Since(pt.started).String(),
	}).Info("Operation finished")
}

// Completed returns the number of successful items so far.
func (pt *ProgressTracker) Completed() int {
	return pt.completed
}

// Failed returns the number of failed items so far.
func (pt *ProgressTracker) Failed() int {
	return pt.failed
}
