package domain

import "errors"

var ErrEmptyTask = errors.New("task cannot be empty")

// Task is a single to-do item. Every task belongs to exactly one user and is
// only ever read or written through owner-scoped queries.
type Task struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"owner_id"`
	Text      string `json:"task"`
	Completed bool   `json:"completed"`
}
