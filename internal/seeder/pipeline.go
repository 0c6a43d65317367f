package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitforge/fitplan-backend/internal/domain"
)

// allPhases defines the canonical execution order: the catalog and the
// attribute vocabularies must exist before plans can reference them.
var allPhases = []string{"catalog", "attributes", "plans"}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Store is the persistence surface the pipeline writes through.
type Store interface {
	UpsertExercises(ctx context.Context, exercises []domain.Exercise) (int, int, error)
	UpsertTags(ctx context.Context, names []string) (int, int, error)
	UpsertMuscleGroups(ctx context.Context, names []string) (int, int, error)
	UpsertEquipment(ctx context.Context, names []string) (int, int, error)
	SystemPlanExists(ctx context.Context, name string) (bool, error)
	ExerciseIDByName(ctx context.Context, name string) (domain.FlexID, error)
	InsertSystemPlan(ctx context.Context, plan domain.WorkoutPlan, children []domain.WorkoutExercise, tags, muscleGroups, equipment []string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pipeline orchestrates the 3-phase seeding process.
type Pipeline struct {
	log     *slog.Logger
	store   Store
	tx      txManager
	cfg     Config
	dataset *Dataset
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, store Store, tx txManager, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log,
		store:   store,
		tx:      tx,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded an error.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run (still in canonical order). DryRun parses and validates the dataset
// without writing.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	ds, err := ParseDataset(p.cfg.DatasetPath)
	if err != nil {
		return err
	}
	p.dataset = ds

	if p.cfg.DryRun {
		p.log.Info("dry run: dataset valid",
			slog.Int("exercises", len(ds.Exercises)),
			slog.Int("tags", len(ds.Tags)),
			slog.Int("muscle_groups", len(ds.MuscleGroups)),
			slog.Int("equipment", len(ds.Equipment)),
			slog.Int("plans", len(ds.Plans)),
		)
		return nil
	}

	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
			}
		}
		toRun = filtered
	}

	for _, phase := range toRun {
		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "catalog":
			result = p.runCatalog(ctx)
		case "attributes":
			result = p.runAttributes(ctx)
		case "plans":
			result = p.runPlans(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("skipped", result.Skipped),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	return nil
}

func (p *Pipeline) runCatalog(ctx context.Context) PhaseResult {
	var result PhaseResult

	exercises := make([]domain.Exercise, 0, len(p.dataset.Exercises))
	for _, ex := range p.dataset.Exercises {
		exercises = append(exercises, domain.Exercise{
			Name:        ex.Name,
			Description: ex.Description,
		})
	}

	result.Err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		inserted, skipped, err := p.store.UpsertExercises(ctx, exercises)
		result.Inserted, result.Skipped = inserted, skipped
		return err
	})
	return result
}

func (p *Pipeline) runAttributes(ctx context.Context) PhaseResult {
	var result PhaseResult

	result.Err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, group := range []struct {
			name   string
			upsert func(context.Context, []string) (int, int, error)
			names  []string
		}{
			{"tags", p.store.UpsertTags, p.dataset.Tags},
			{"muscle_groups", p.store.UpsertMuscleGroups, p.dataset.MuscleGroups},
			{"equipment", p.store.UpsertEquipment, p.dataset.Equipment},
		} {
			inserted, skipped, err := group.upsert(ctx, group.names)
			if err != nil {
				return fmt.Errorf("%s: %w", group.name, err)
			}
			result.Inserted += inserted
			result.Skipped += skipped
		}
		return nil
	})
	return result
}

// runPlans seeds each curated plan in its own transaction: a broken plan
// definition must not undo the ones already written.
func (p *Pipeline) runPlans(ctx context.Context) PhaseResult {
	var result PhaseResult

	for _, dp := range p.dataset.Plans {
		err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
			exists, err := p.store.SystemPlanExists(ctx, dp.Name)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				return nil
			}

			children := make([]domain.WorkoutExercise, 0, len(dp.Exercises))
			for _, entry := range dp.Exercises {
				exerciseID, err := p.store.ExerciseIDByName(ctx, entry.Exercise)
				if err != nil {
					return err
				}
				children = append(children, domain.WorkoutExercise{
					ExerciseID:  exerciseID,
					Sets:        entry.Sets,
					Repetitions: entry.Repetitions,
					Duration:    entry.Duration,
					RestTime:    entry.RestTime,
				})
			}

			plan := domain.WorkoutPlan{
				Name:              dp.Name,
				Description:       dp.Description,
				Difficulty:        planDifficulty(dp),
				Category:          planCategory(dp),
				EstimatedDuration: dp.EstimatedDuration,
			}
			if err := p.store.InsertSystemPlan(ctx, plan, children, dp.Tags, dp.MuscleGroups, dp.Equipment); err != nil {
				return err
			}
			result.Inserted++
			return nil
		})
		if err != nil {
			result.Err = fmt.Errorf("plan %q: %w", dp.Name, err)
			return result
		}
	}

	return result
}

func planDifficulty(dp DatasetPlan) domain.Difficulty {
	if dp.Difficulty == "" {
		return domain.DifficultyBeginner
	}
	return domain.Difficulty(dp.Difficulty)
}

func planCategory(dp DatasetPlan) domain.WorkoutCategory {
	if dp.Category == "" {
		return domain.CategoryFullBody
	}
	return domain.WorkoutCategory(dp.Category)
}
