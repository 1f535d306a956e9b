package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/airport-operations/internal/queue"
	"github.com/iliyamo/airport-operations/internal/repository"
)

func TestRecordPublishesChangeEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO activity_log \(user_id, action, entity_type, entity_id, details\)`).
		WillReturnResult(sqlmock.NewResult(11, 1))

	var got queue.ChangeEvent
	published := false
	rec := &Recorder{
		repo: repository.NewActivityRepo(db),
		publish: func(_ context.Context, e queue.ChangeEvent) error {
			published = true
			got = e
			return nil
		},
	}

	id := uint64(3)
	rec.Record(context.Background(), 42, "flight.depart", "flight", &id, map[string]any{"to": "DEPARTED"})

	if !published {
		t.Fatal("stored entry should be announced on the change queue")
	}
	if got.Table != "activity_log" {
		t.Errorf("Table = %q, want activity_log", got.Table)
	}
	if got.Op != queue.OpInsert {
		t.Errorf("Op = %q, want %q", got.Op, queue.OpInsert)
	}
	if got.ActorID != 42 {
		t.Errorf("ActorID = %d, want 42", got.ActorID)
	}
	row, ok := got.Row.(map[string]any)
	if !ok {
		t.Fatalf("Row has type %T, want map", got.Row)
	}
	if row["action"] != "flight.depart" {
		t.Errorf("row action = %v, want flight.depart", row["action"])
	}
	if row["id"] != uint64(11) {
		t.Errorf("row id = %v, want 11", row["id"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordSkipsPublishOnFailedInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO activity_log`).
		WillReturnError(errors.New("connection lost"))

	rec := &Recorder{
		repo: repository.NewActivityRepo(db),
		publish: func(context.Context, queue.ChangeEvent) error {
			t.Fatal("nothing should be published when the insert fails")
			return nil
		},
	}
	rec.Record(context.Background(), 1, "runway.created", "runway", nil, nil)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
