// Package activity implements the audit trail. Every successful
// mutation is mirrored into the append-only activity_log table through
// a Recorder. Recording is fire-and-forget: a failed append is logged
// but never aborts or reverts the mutation that triggered it.
package activity

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/queue"
	"github.com/iliyamo/airport-operations/internal/repository"
	event_publisher "github.com/iliyamo/airport-operations/internal/service"
)

// Recorder appends audit entries on behalf of the acting user. Each
// stored entry is announced on the change queue like every other table
// mutation; the publish is best-effort.
type Recorder struct {
	repo    *repository.ActivityRepo
	publish func(context.Context, queue.ChangeEvent) error
}

// NewRecorder returns a Recorder writing through the given repository.
func NewRecorder(repo *repository.ActivityRepo) *Recorder {
	if repo == nil {
		panic("nil repository passed to NewRecorder")
	}
	return &Recorder{repo: repo, publish: event_publisher.PublishChange}
}

// Record appends one entry. userID is always the acting user; there is
// no way to write an entry on someone else's behalf. details may be nil.
// The write runs detached from the request context so a client
// disconnect after commit does not lose the entry.
func (r *Recorder) Record(ctx context.Context, userID uint64, action, entityType string, entityID *uint64, details map[string]any) {
	e := model.ActivityLogEntry{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if len(details) > 0 {
		b, err := json.Marshal(details)
		if err != nil {
			log.Printf("activity: marshal details failed: %v", err)
		} else {
			s := string(b)
			e.Details = &s
		}
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := r.repo.Insert(wctx, &e); err != nil {
		log.Printf("activity: record %s %s failed: %v", action, entityType, err)
		return
	}
	_ = r.publish(wctx, queue.ChangeEvent{
		Table:   "activity_log",
		Op:      queue.OpInsert,
		ActorID: userID,
		Row: map[string]any{
			"id":          e.ID,
			"user_id":     e.UserID,
			"action":      e.Action,
			"entity_type": e.EntityType,
			"entity_id":   e.EntityID,
			"details":     e.Details,
		},
	})
}
