package workoutplan

import (
	"context"
	"fmt"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Reorder
// ---------------------------------------------------------------------------

// Reorder assigns new positions to the plan's children in one transaction.
// Items whose ID matches no child of the plan are skipped, and the report
// names them explicitly so the caller can tell a full apply from a partial
// one.
func (s *Service) Reorder(ctx context.Context, planID domain.FlexID, items []domain.ReorderItem) (*ReorderReport, error) {
	callerID, ok := ctxutil.CallerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	for i, item := range items {
		if item.Order < 0 {
			return nil, domain.NewValidationError(
				fmt.Sprintf("items[%d].order", i), "must be >= 0")
		}
	}

	report := &ReorderReport{
		Updated: []domain.FlexID{},
		Skipped: []domain.FlexID{},
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		plan, err := s.authorizeWrite(txCtx, planID, callerID)
		if err != nil {
			return err
		}

		children, err := s.children.ListByPlanID(txCtx, plan.ID)
		if err != nil {
			return fmt.Errorf("load exercises: %w", err)
		}

		applicable := make([]domain.ReorderItem, 0, len(items))
		for _, item := range items {
			child := findChild(children, item.ID)
			if child == nil {
				report.Skipped = append(report.Skipped, item.ID)
				continue
			}
			applicable = append(applicable, domain.ReorderItem{ID: child.ID, Order: item.Order})
			report.Updated = append(report.Updated, child.ID)
		}

		if len(applicable) == 0 {
			return nil
		}

		if err := s.children.UpdateOrders(txCtx, plan.ID, applicable); err != nil {
			return fmt.Errorf("apply order: %w", err)
		}

		return nil
	})
	if txErr != nil {
		return nil, s.wrapInternal(ctx, "reorder exercises", txErr)
	}

	s.invalidate(ctx, planID)

	return report, nil
}
