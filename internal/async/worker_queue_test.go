package async

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestWorkerQueue_ProcessesAllJobs(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	handle := func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
		if path == "bad.pdf" {
			return errors.New("boom")
		}
		return nil
	}
	q := NewWorkerQueue(handle, nil, WithWorkers(3), WithQueueSize(1))

	paths := []string{"a.pdf", "b.png", "bad.pdf", "c.jpg", "d.tif"}
	for _, p := range paths {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", p, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	sort.Strings(seen)
	want := []string{"a.pdf", "b.png", "bad.pdf", "c.jpg", "d.tif"}
	if len(seen) != len(want) {
		t.Fatalf("processed %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("processed[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestWorkerQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewWorkerQueue(func(context.Context, string) error { return nil }, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
	if err := q.Enqueue(context.Background(), Job{Path: "late.pdf"}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Enqueue after Shutdown error = %v, want ErrQueueClosed", err)
	}
}

func TestWorkerQueue_HandlerGetsDeadline(t *testing.T) {
	got := make(chan bool, 1)
	q := NewWorkerQueue(func(ctx context.Context, _ string) error {
		_, ok := ctx.Deadline()
		got <- ok
		return nil
	}, nil, WithProcessTimeout(time.Minute))
	if err := q.Enqueue(context.Background(), Job{Path: "x.pdf"}); err != nil {
		t.Fatal(err)
	}
	q.Shutdown(context.Background())
	if !<-got {
		t.Error("handler context has no deadline")
	}
}
