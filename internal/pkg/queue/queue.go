package queue

import (
	"errors"
	"sync"

	"callguard/internal/pkg/models"
)

// Bounded FIFO queue of analysis jobs, safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	capacity int
	q        []models.AnalysisJob
}

// Creates an empty queue with a specified capacity.
func CreateQueue(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, errors.New("capacity should be greater than 0")
	}
	return &Queue{
		capacity: capacity,
		q:        make([]models.AnalysisJob, 0, capacity),
	}, nil
}

// Inserts a job into the queue.
func (q *Queue) Insert(job models.AnalysisJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.q) < q.capacity {
		q.q = append(q.q, job)
		return nil
	}
	return errors.New("queue is full")
}

// Removes the oldest job from the queue.
func (q *Queue) Remove() (models.AnalysisJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.q) > 0 {
		job := q.q[0]
		q.q = q.q[1:]
		return job, nil
	}
	return models.AnalysisJob{}, errors.New("queue is empty")
}

// Returns the number of jobs in the queue.
func (q *Queue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.q)
}

// Returns true if the queue is empty.
func (q *Queue) IsEmpty() bool {
	return q.Length() == 0
}
