package queue

import "time"

// TaskQueueName is the durable queue carrying task completion events.
const TaskQueueName = "task.completed"

// TaskCompletedEvent is published by the todo service whenever a task
// transitions to completed.
type TaskCompletedEvent struct {
	TaskID      uint64    `json:"task_id"`
	SectionID   uint64    `json:"section_id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completed_at"`
}
