package async

import (
	"context"
	"time"
)

// Job is one file waiting to be processed.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Handler processes one job's file.
type Handler func(ctx context.Context, path string) error
