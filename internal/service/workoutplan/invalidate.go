package workoutplan

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fitforge/fitplan-backend/internal/cache"
	"github.com/fitforge/fitplan-backend/internal/domain"
)

// Cache policy: the cached payload is the base row plus children. Relation
// sets are loaded fresh on every read and never cached, so relation-only
// writes cannot poison a plan entry.

// cachedAggregate is the serialized form of a cache entry.
type cachedAggregate struct {
	Plan *domain.WorkoutPlan `json:"plan"`
}

// planFromCache returns the cached aggregate or nil. Every cache failure is
// treated as a miss and logged at warn; the cache never fails a read.
func (s *Service) planFromCache(ctx context.Context, id domain.FlexID) *domain.WorkoutPlan {
	raw, err := s.cache.Get(ctx, cache.PlanKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WarnContext(ctx, "cache get failed", "plan_id", id, "error", err)
		}
		return nil
	}

	var entry cachedAggregate
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.log.WarnContext(ctx, "cache entry corrupt", "plan_id", id, "error", err)
		return nil
	}

	return entry.Plan
}

// planToCache stores the aggregate's base row and children. The relation
// slices are stripped first so a cache hit never serves stale relations.
func (s *Service) planToCache(ctx context.Context, plan *domain.WorkoutPlan) {
	stripped := *plan
	stripped.Tags = nil
	stripped.MuscleGroups = nil
	stripped.Equipment = nil

	raw, err := json.Marshal(cachedAggregate{Plan: &stripped})
	if err != nil {
		s.log.WarnContext(ctx, "cache marshal failed", "plan_id", plan.ID, "error", err)
		return
	}

	if err := s.cache.Set(ctx, cache.PlanKey(plan.ID), raw, s.cfg.EntityTTL); err != nil {
		s.log.WarnContext(ctx, "cache set failed", "plan_id", plan.ID, "error", err)
	}
}

// invalidate drops everything that could serve stale data for the plan: the
// entity key, its expansion variants, and the whole list namespace. List
// keys are deleted by prefix; bounded staleness between deletion and the
// short list TTL is accepted. Failures are logged, never surfaced.
func (s *Service) invalidate(ctx context.Context, id domain.FlexID) {
	if err := s.cache.Delete(ctx, cache.PlanKey(id)); err != nil {
		s.log.WarnContext(ctx, "cache invalidation failed", "plan_id", id, "error", err)
	}
	// The trailing separator keeps plan "7" from sweeping plan "70".
	if err := s.cache.DeletePrefix(ctx, cache.PlanKey(id)+":"); err != nil {
		s.log.WarnContext(ctx, "cache invalidation failed", "plan_id", id, "error", err)
	}
	if err := s.cache.DeletePrefix(ctx, cache.ListKeyPrefix); err != nil {
		s.log.WarnContext(ctx, "list cache invalidation failed", "plan_id", id, "error", err)
	}
}
