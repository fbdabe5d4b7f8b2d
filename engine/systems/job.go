package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/deferred/engine/core"
)

// Job is a unit of work run on one of the pool workers.
type Job struct {
	Name string
	Run  func() error
}

type jobTask struct {
	job        Job
	onComplete func(error)
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan jobTask
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan jobTask, channelSize),
	}
	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for task := range js.jobQueue {
				err := runJob(task.job)
				if err != nil {
					core.LogError("%s", err)
				}
				if task.onComplete != nil {
					task.onComplete(err)
				}
			}
		}()
	}
}

func runJob(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job `%s` panicked: %v", job.Name, r)
		}
	}()
	if err := job.Run(); err != nil {
		return fmt.Errorf("job `%s` failed: %w", job.Name, err)
	}
	return nil
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if js.closed {
		js.mu.Unlock()
		return nil
	}
	js.closed = true
	close(js.jobQueue)
	js.mu.Unlock()

	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the queue is full.
 * @param onComplete Called from the worker with the job result, may be nil.
 */
func (js *JobSystem) Submit(job Job, onComplete func(error)) error {
	js.mu.RLock()
	defer js.mu.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jobTask{job: job, onComplete: onComplete}
	return nil
}

// RunAll runs the jobs concurrently and waits for all of them. The returned
// error joins every failure in submission order.
func (js *JobSystem) RunAll(jobs ...Job) error {
	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		if err := js.Submit(job, func(err error) {
			errs[i] = err
			wg.Done()
		}); err != nil {
			errs[i] = err
			wg.Done()
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}
