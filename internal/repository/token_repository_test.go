package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestValidateRefreshResolvesUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens\s+WHERE token_hash=\? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP\(\)`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(uint64(9)))

	userID, err := repo.ValidateRefresh(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if userID != 9 {
		t.Errorf("userID = %d, want 9", userID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestValidateRefreshRejectsDeadTokens(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewTokenRepo(db)

	// Revoked and expired rows are filtered in SQL, so any dead token
	// surfaces as no rows.
	mock.ExpectQuery(`SELECT user_id FROM refresh_tokens`).
		WithArgs("dead").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err = repo.ValidateRefresh(context.Background(), "dead")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("ValidateRefresh = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewTokenRepo(db)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP\(\) WHERE user_id=\? AND revoked_at IS NULL`).
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.RevokeAllForUser(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
