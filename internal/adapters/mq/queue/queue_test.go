package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue[string](WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := q.Enqueue(ctx, "read more books"); err != nil {
		t.Fatalf("expected enqueue to succeed: %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	item := <-q.Dequeue(ctx)
	if item != "read more books" {
		t.Errorf("expected queued item, got %q", item)
	}
}

func TestInMemoryQueue_EnqueueWaitsForRoom(t *testing.T) {
	q := NewInMemoryQueue[int](WithCapacity(1))
	ctx := context.Background()

	if err := q.Enqueue(ctx, 1); err != nil {
		t.Fatalf("expected enqueue to succeed: %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(short, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on a full queue, got %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(ctx, 3) }()

	out := q.Dequeue(ctx)
	if v := <-out; v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected blocked enqueue to complete: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked enqueue did not complete")
	}
	if v := <-out; v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue[int]()
	ctx := context.Background()
	out := q.Dequeue(ctx)

	if q.IsClosed() {
		t.Fatal("new queue should be open")
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
	if !q.IsClosed() {
		t.Fatal("queue should be closed")
	}
	if err := q.Enqueue(ctx, 1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected dequeue channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue channel was not closed")
	}
}

func TestInMemoryQueue_DequeueStopsWithContext(t *testing.T) {
	q := NewInMemoryQueue[int]()
	ctx, cancel := context.WithCancel(context.Background())
	out := q.Dequeue(ctx)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected no items")
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue channel was not closed after cancel")
	}
}
