package worker_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	worker "github.com/okian/herocoach/internal/adapters/mq/worker"
	"github.com/smartystreets/goconvey/convey"
)

// mockClassifier upper-cases text, fails for "fail" and can block until
// released.
type mockClassifier struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	release     chan struct{}
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if text == "fail" {
		return "", errors.New("classifier error")
	}
	return strings.ToUpper(text), nil
}

// mockQueue feeds jobs directly to a single worker.
type mockQueue struct {
	jobs chan worker.Job
}

func (q *mockQueue) Dequeue(context.Context) <-chan worker.Job { return q.jobs }

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		q := &mockQueue{jobs: make(chan worker.Job, 4)}
		w := worker.NewInMemoryWorker(q, &mockClassifier{}, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("It answers each job on its result channel", func() {
			result := make(chan worker.Result, 1)
			q.jobs <- worker.Job{Ctx: ctx, Text: "career", Result: result}

			r := <-result
			convey.So(r.Err, convey.ShouldBeNil)
			convey.So(r.Label, convey.ShouldEqual, "CAREER")
		})

		convey.Convey("Classifier errors are passed back", func() {
			result := make(chan worker.Result, 1)
			q.jobs <- worker.Job{Ctx: ctx, Text: "fail", Result: result}

			r := <-result
			convey.So(r.Err, convey.ShouldNotBeNil)
		})

		convey.Convey("Jobs whose caller already gave up are not classified", func() {
			jobCtx, jobCancel := context.WithCancel(ctx)
			jobCancel()
			result := make(chan worker.Result, 1)
			q.jobs <- worker.Job{Ctx: jobCtx, Text: "career", Result: result}

			r := <-result
			convey.So(errors.Is(r.Err, context.Canceled), convey.ShouldBeTrue)
		})

		convey.Convey("Shutdown stops the loop", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mc := &mockClassifier{}
		p := worker.NewPool(3, mc, worker.WithQueueSize(8))
		p.Start(ctx)

		convey.Convey("It classifies through its workers", func() {
			label, err := p.Classify(ctx, "finance")
			convey.So(err, convey.ShouldBeNil)
			convey.So(label, convey.ShouldEqual, "FINANCE")
			convey.So(p.Processed(), convey.ShouldEqual, 1)
			convey.So(p.Workers(), convey.ShouldEqual, 3)
			convey.So(p.QueueCap(), convey.ShouldEqual, 8)
		})

		convey.Convey("Failures reach the caller", func() {
			_, err := p.Classify(ctx, "fail")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("After shutdown it refuses work", func() {
			convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)
			convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)

			_, err := p.Classify(ctx, "finance")
			convey.So(errors.Is(err, worker.ErrPoolStopped), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Concurrency never exceeds the worker count", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mc := &mockClassifier{release: make(chan struct{})}
		p := worker.NewPool(2, mc)
		p.Start(ctx)

		var wg sync.WaitGroup
		for range 6 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = p.Classify(ctx, "x")
			}()
		}

		time.Sleep(50 * time.Millisecond)
		convey.So(mc.inFlight.Load(), convey.ShouldEqual, 2)
		close(mc.release)
		wg.Wait()
		convey.So(mc.maxInFlight.Load(), convey.ShouldEqual, 2)
		convey.So(p.Processed(), convey.ShouldEqual, 6)
		convey.So(p.Shutdown(context.Background()), convey.ShouldBeNil)
	})

	convey.Convey("A caller deadline is honoured while queued", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mc := &mockClassifier{release: make(chan struct{})}
		defer close(mc.release)
		p := worker.NewPool(1, mc)
		p.Start(ctx)

		short, scancel := context.WithTimeout(ctx, 30*time.Millisecond)
		defer scancel()
		_, err := p.Classify(short, "slow")
		convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
	})
}
