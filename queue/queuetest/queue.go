// Package queuetest records enqueued tasks instead of sending them to redis.
package queuetest

import (
	"sync"

	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/hibiken/asynq"
)

type Queue struct {
	mu      sync.Mutex
	Tasks   []queue.Processor
	Options [][]asynq.Option
	Err     error
}

func (q *Queue) Enqueue(processor queue.Processor, opts ...asynq.Option) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.Err != nil {
		return q.Err
	}
	q.Tasks = append(q.Tasks, processor)
	q.Options = append(q.Options, opts)
	return nil
}

// Emails returns the queued email deliveries in order.
func (q *Queue) Emails() []*queue.EmailDeliveryPayload {
	q.mu.Lock()
	defer q.mu.Unlock()

	var emails []*queue.EmailDeliveryPayload
	for _, task := range q.Tasks {
		if email, ok := task.(*queue.EmailDeliveryPayload); ok {
			emails = append(emails, email)
		}
	}
	return emails
}
