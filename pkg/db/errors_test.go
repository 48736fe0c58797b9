package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_products_code"}

	if !IsUniqueViolation(pgErr, "") {
		t.Fatalf("expected bare unique violation to match")
	}
	if !IsUniqueViolation(pgErr, "idx_products_code") {
		t.Fatalf("expected named constraint to match")
	}
	if IsUniqueViolation(pgErr, "idx_suppliers_name") {
		t.Fatalf("different constraint should not match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatalf("fk violation should not match unique check")
	}

	wrapped := fmt.Errorf("insert: %w", pgErr)
	if !IsUniqueViolation(wrapped, "idx_products_code") {
		t.Fatalf("expected wrapped pg error to match")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: products.code")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatalf("expected sqlite message to match")
	}

	if IsUniqueViolation(nil, "") {
		t.Fatalf("nil should not match")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected pg fk violation to match")
	}
	if !IsForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")) {
		t.Fatalf("expected sqlite fk message to match")
	}
	if IsForeignKeyViolation(errors.New("boom")) {
		t.Fatalf("unrelated error should not match")
	}
}
