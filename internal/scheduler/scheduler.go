// Package scheduler runs ingestion tasks with a fixed concurrency cap.
package scheduler

import (
	"context"
	"sync"

	"github.com/openlingua/ingestor/internal/domain"
)

// Task is a single unit of ingestion work. It returns the produced content
// item, or an error when the item could not be ingested.
type Task func(ctx context.Context) (*domain.ContentItem, error)

// Result is the outcome of one task. Item is nil when the task failed.
type Result struct {
	Item *domain.ContentItem
	Err  error
}

// Bounded runs task closures with at most a fixed number in flight at any
// instant. One task's failure never aborts its siblings, and a slow task
// only delays later tasks through the concurrency cap itself.
type Bounded struct {
	limit int
}

// NewBounded creates a scheduler with the given concurrency cap. A cap below
// one is treated as one.
func NewBounded(limit int) *Bounded {
	if limit < 1 {
		limit = 1
	}
	return &Bounded{limit: limit}
}

// Run executes all tasks and returns one Result per task, in submission
// order regardless of completion order. It blocks until every task has
// resolved.
func (b *Bounded) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))

	sem := make(chan struct{}, b.limit)
	var wg sync.WaitGroup

	for i, task := range tasks {
		sem <- struct{}{}
		wg.Add(1)

		go func(idx int, run Task) {
			defer func() {
				<-sem
				wg.Done()
			}()

			item, err := run(ctx)
			results[idx] = Result{Item: item, Err: err}
		}(i, task)
	}

	wg.Wait()

	return results
}

// CollectItems filters results down to successfully produced items,
// preserving submission order.
func CollectItems(results []Result) []*domain.ContentItem {
	items := make([]*domain.ContentItem, 0, len(results))
	for _, res := range results {
		if res.Err == nil && res.Item != nil {
			items = append(items, res.Item)
		}
	}
	return items
}
