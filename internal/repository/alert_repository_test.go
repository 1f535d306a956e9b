package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func alertRow(acknowledged, active bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "message", "severity",
		"flight_id", "runway_id", "is_active", "is_acknowledged",
		"acknowledged_by", "acknowledged_at", "created_by", "created_at"})
	var ackBy any
	var ackAt any
	if acknowledged {
		ackBy = int64(7)
		ackAt = time.Now().UTC()
	}
	return rows.AddRow(uint64(5), "Runway closed", "09L closed for inspection",
		"WARNING", nil, nil, active, acknowledged, ackBy, ackAt,
		uint64(1), time.Now().UTC())
}

func TestSetActiveRefusedOnAcknowledgedAlert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewAlertRepo(db)

	// The UPDATE must carry the is_acknowledged=0 precondition so an
	// acknowledged alert cannot be reactivated.
	mock.ExpectExec(`UPDATE alerts SET is_active=\? WHERE id=\? AND is_acknowledged=0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM alerts WHERE id=\?`).
		WillReturnRows(alertRow(true, false))

	err = repo.SetActive(context.Background(), 5, true)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("SetActive on acknowledged alert = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetActiveNoOpWhenValueUnchanged(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewAlertRepo(db)

	mock.ExpectExec(`UPDATE alerts SET is_active=\? WHERE id=\? AND is_acknowledged=0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM alerts WHERE id=\?`).
		WillReturnRows(alertRow(false, true))

	if err := repo.SetActive(context.Background(), 5, true); err != nil {
		t.Fatalf("SetActive with unchanged value = %v, want nil", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAcknowledgeSecondCallConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewAlertRepo(db)

	mock.ExpectExec(`UPDATE alerts\s+SET is_acknowledged=1, is_active=0`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM alerts WHERE id=\?`).
		WillReturnRows(alertRow(true, false))

	err = repo.Acknowledge(context.Background(), 5, 7)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second Acknowledge = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
