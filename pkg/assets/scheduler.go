package assets

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// maxWorkers caps the fan-out; small batches get one worker per task.
const maxWorkers = 4

// Producer turns a single asset task into a URL. If refresh is true,
// cached output is bypassed.
type Producer interface {
	Produce(ctx context.Context, task Task, refresh bool) (string, error)
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(ctx context.Context, task Task, refresh bool) (string, error)

func (f ProducerFunc) Produce(ctx context.Context, task Task, refresh bool) (string, error) {
	return f(ctx, task, refresh)
}

// Scheduler runs asset tasks concurrently against a Producer.
// Multiple goroutines can safely share one Scheduler.
type Scheduler struct {
	producer Producer
	logger   *log.Logger
}

// NewScheduler creates a scheduler. If logger is nil, the default logger
// is used.
func NewScheduler(p Producer, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{producer: p, logger: logger}
}

// Run executes every descriptor and returns the successful results plus
// an error per failed task. A cancelled context stops unstarted tasks;
// those surface as TaskErrors carrying the context error.
func (s *Scheduler) Run(ctx context.Context, descriptors []Descriptor, refresh bool) ([]Result, []TaskError) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	tasks := make(chan Task, len(descriptors))
	for _, d := range descriptors {
		tasks <- NewTask(d)
	}
	close(tasks)

	workers := len(descriptors)
	if workers > maxWorkers {
		workers = maxWorkers
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []Result
		errs    []TaskError
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				if err := ctx.Err(); err != nil {
					mu.Lock()
					errs = append(errs, TaskError{Task: task, Err: err})
					mu.Unlock()
					continue
				}
				url, err := s.producer.Produce(ctx, task, refresh)
				mu.Lock()
				if err != nil {
					s.logger.Warn("asset task failed", "task", task.ID, "kind", task.Kind, "err", err)
					errs = append(errs, TaskError{Task: task, Err: err})
				} else {
					results = append(results, Result{Task: task, URL: url})
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return results, errs
}
