// Package worker provides a parallel worker pool that processes an image in
// horizontal bands.
package worker

import (
	"context"
	"image"
	"sync"
	"time"
)

// DefaultBandHeight is the band height used when none is configured.
const DefaultBandHeight = 64

// Processor processes one region of an image.
// Implementations must only write pixels inside bounds.
type Processor interface {
	Process(ctx context.Context, bounds image.Rectangle) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, bounds image.Rectangle) error

// Process calls f.
func (f ProcessorFunc) Process(ctx context.Context, bounds image.Rectangle) error {
	return f(ctx, bounds)
}

// Task represents a single band of work.
type Task struct {
	Index  int
	Bounds image.Rectangle
}

// Result represents the outcome of a task.
type Result struct {
	Task    Task
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Processor  Processor
	OnProgress ProgressFunc
}

// Pool manages parallel band processing.
type Pool struct {
	workers    int
	processor  Processor
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		processor:  cfg.Processor,
		onProgress: cfg.OnProgress,
	}
}

// Bands splits bounds into horizontal bands of at most height rows.
func Bands(bounds image.Rectangle, height int) []Task {
	if bounds.Empty() {
		return nil
	}
	if height <= 0 {
		height = DefaultBandHeight
	}

	tasks := make([]Task, 0, (bounds.Dy()+height-1)/height)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += height {
		maxY := min(y+height, bounds.Max.Y)
		tasks = append(tasks, Task{
			Index:  len(tasks),
			Bounds: image.Rect(bounds.Min.X, y, bounds.Max.X, maxY),
		})
	}
	return tasks
}

// Run executes all tasks and returns results.
// Tasks are processed in parallel by the configured number of workers.
// The function blocks until all tasks complete or the context is cancelled;
// tasks not started before cancellation report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < min(p.workers, len(tasks)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	// The channel is buffered for every task, so feeding never blocks.
	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	go func() {
		var completed, failed int
		for result := range resultCh {
			results = append(results, result)

			completed++
			if result.Err != nil {
				failed++
			}

			if p.onProgress != nil {
				p.onProgress(completed, len(tasks), failed)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)

	<-done

	return results
}

// worker processes tasks from the task channel and sends results to the result channel.
func (p *Pool) worker(ctx context.Context, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			results <- Result{Task: task, Err: err}
			continue
		}

		start := time.Now()
		err := p.processor.Process(ctx, task.Bounds)

		results <- Result{
			Task:    task,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}

// FirstError returns the first failed result's error in task order, or nil.
func FirstError(results []Result) error {
	var first *Result
	for i := range results {
		r := &results[i]
		if r.Err == nil {
			continue
		}
		if first == nil || r.Task.Index < first.Task.Index {
			first = r
		}
	}
	if first == nil {
		return nil
	}
	return first.Err
}
