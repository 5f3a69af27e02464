package service

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"
	"golang.org/x/sync/singleflight"

	"focustree/internal/modules/recovery/domain"
	recoveryout "focustree/internal/modules/recovery/port/out"
)

// TaskQueue hands out context-aware tasks one at a time. A fetch asks for a
// batch and keeps the remainder; concurrent fetches share one remote call.
type TaskQueue struct {
	source recoveryout.TaskSource
	log    hclog.Logger
	group  singleflight.Group

	mu    sync.Mutex
	queue []domain.Task
}

func NewTaskQueue(source recoveryout.TaskSource, log hclog.Logger) *TaskQueue {
	return &TaskQueue{source: source, log: log}
}

// Next pops a queued task, fetching a new batch when the queue is empty. It
// falls back to a generic planning task when nothing can be fetched.
func (q *TaskQueue) Next(ctx context.Context, goal string) (domain.Task, error) {
	if task, ok := q.pop(); ok {
		return task, nil
	}
	_, err, _ := q.group.Do("batch", func() (any, error) {
		tasks, err := q.source.Generate(ctx, goal, domain.BatchSize)
		if err != nil {
			return nil, err
		}
		q.mu.Lock()
		q.queue = append(q.queue, tasks...)
		q.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		q.log.Warn("fetch recovery tasks", "error", err)
	}
	if task, ok := q.pop(); ok {
		return task, nil
	}
	return domain.FallbackTask(), err
}

func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Reset drops queued tasks, e.g. when the session ends.
func (q *TaskQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = nil
}

func (q *TaskQueue) pop() (domain.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return domain.Task{}, false
	}
	task := q.queue[0]
	q.queue = q.queue[1:]
	return task, true
}
