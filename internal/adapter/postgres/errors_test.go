package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	if got := MapError(nil, "workout_plan", domain.NewID()); got != nil {
		t.Errorf("MapError(nil) = %v, want nil", got)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	id := domain.IDFromInt64(42)
	got := MapError(pgx.ErrNoRows, "workout_plan", id)
	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", got)
	}
	if want := "workout_plan 42"; !errors.Is(got, domain.ErrNotFound) || got.Error()[:len(want)] != want {
		t.Errorf("error should carry entity and id context: %v", got)
	}
}

func TestMapError_PgCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want error
	}{
		{"23505", domain.ErrAlreadyExists},
		{"23503", domain.ErrNotFound},
		{"23514", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			err := MapError(&pgconn.PgError{Code: tt.code}, "workout_exercise", domain.NewID())
			if !errors.Is(err, tt.want) {
				t.Errorf("code %s: expected %v, got %v", tt.code, tt.want, err)
			}
		})
	}
}

func TestMapError_ContextErrorsPassThrough(t *testing.T) {
	t.Parallel()

	err := MapError(context.Canceled, "workout_plan", domain.NewID())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled to pass through, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("context errors must not map to domain errors")
	}
}

func TestMapError_UnknownWrapped(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("connection refused")
	err := MapError(cause, "workout_plan", domain.IDFromInt64(7))
	if !errors.Is(err, cause) {
		t.Errorf("original cause should be preserved, got %v", err)
	}
}
