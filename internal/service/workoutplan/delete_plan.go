package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

// Delete removes a plan the caller owns. Child rows and junction rows
// cascade at the storage layer. Returns a success flag rather than the
// deleted entity; an absent plan is ErrNotFound like any other mutation.
func (s *Service) Delete(ctx context.Context, id domain.FlexID) (bool, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return false, domain.ErrUnauthorized
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.authorizeWrite(txCtx, id, callerID); err != nil {
			return err
		}
		if err := s.plans.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return false, s.wrapInternal(ctx, "delete plan", txErr)
	}

	s.invalidate(ctx, id)

	return true, nil
}
