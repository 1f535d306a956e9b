// Package queue defines message payloads exchanged over the message broker.
package queue

// Change operations carried in ChangeEvent.Op.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// ChangeEvent is published after every committed mutation to an
// operational table. Subscribers (the dashboard's realtime layer, the
// log consumer) receive the table name, the operation and the affected
// row; delivery semantics beyond publishing are theirs.
type ChangeEvent struct {
	Table     string `json:"table"`
	Op        string `json:"operation"`
	Row       any    `json:"row"`
	ActorID   uint64 `json:"actor_id"`
	Timestamp string `json:"timestamp"`
}
