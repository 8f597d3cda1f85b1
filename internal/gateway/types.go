// Package gateway defines the boundary through which all task-server
// communication occurs.
package gateway

// Task represents a single to-do record.
type Task struct {
	ID        string
	Title     string
	Completed bool
}
