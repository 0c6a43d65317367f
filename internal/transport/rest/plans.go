package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fitforge/fitplan-backend/internal/domain"
	"github.com/fitforge/fitplan-backend/internal/service/workoutplan"
)

type planService interface {
	Create(ctx context.Context, input workoutplan.CreateInput) (*domain.WorkoutPlan, error)
	GetByID(ctx context.Context, id domain.FlexID) (*domain.WorkoutPlan, error)
	List(ctx context.Context, input workoutplan.ListInput) (*workoutplan.ListResult, error)
	Update(ctx context.Context, id domain.FlexID, input workoutplan.UpdateInput) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, id domain.FlexID) (bool, error)
	AddExercise(ctx context.Context, planID domain.FlexID, input workoutplan.ExerciseInput) (*domain.WorkoutPlan, error)
	UpdateExercise(ctx context.Context, planID, exerciseID domain.FlexID, input workoutplan.ExerciseInput) (*domain.WorkoutPlan, error)
	RemoveExercise(ctx context.Context, planID, exerciseID domain.FlexID) (*domain.WorkoutPlan, error)
	Reorder(ctx context.Context, planID domain.FlexID, items []domain.ReorderItem) (*workoutplan.ReorderReport, error)
}

// PlanHandler serves the workout plan REST endpoints.
type PlanHandler struct {
	plans planService
	log   *slog.Logger
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(plans planService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		plans: plans,
		log:   logger.With("handler", "plans"),
	}
}

type exercisePayload struct {
	ID             domain.FlexID  `json:"id,omitempty"`
	ExerciseID     domain.FlexID  `json:"exercise_id,omitempty"`
	Order          *int           `json:"order,omitempty"`
	Sets           *int           `json:"sets,omitempty"`
	Repetitions    *int           `json:"repetitions,omitempty"`
	Duration       *int           `json:"duration,omitempty"`
	RestTime       *int           `json:"rest_time,omitempty"`
	SupersetWithID *domain.FlexID `json:"superset_with_id,omitempty"`
}

func (p exercisePayload) toInput() workoutplan.ExerciseInput {
	return workoutplan.ExerciseInput{
		ID:             p.ID,
		ExerciseID:     p.ExerciseID,
		Order:          p.Order,
		Sets:           p.Sets,
		Repetitions:    p.Repetitions,
		Duration:       p.Duration,
		RestTime:       p.RestTime,
		SupersetWithID: p.SupersetWithID,
	}
}

type createPlanRequest struct {
	Name              string                  `json:"name"`
	Description       string                  `json:"description"`
	Difficulty        *domain.Difficulty      `json:"difficulty"`
	Category          *domain.WorkoutCategory `json:"category"`
	EstimatedDuration *int                    `json:"estimated_duration"`
	Exercises         []exercisePayload       `json:"exercises"`
	TagIDs            []domain.FlexID         `json:"tag_ids"`
	MuscleGroupIDs    []domain.FlexID         `json:"muscle_group_ids"`
	EquipmentIDs      []domain.FlexID         `json:"equipment_ids"`
}

type updatePlanRequest struct {
	Name              *string                 `json:"name"`
	Description       *string                 `json:"description"`
	Difficulty        *domain.Difficulty      `json:"difficulty"`
	Category          *domain.WorkoutCategory `json:"category"`
	EstimatedDuration *int                    `json:"estimated_duration"`
	Exercises         []exercisePayload       `json:"exercises"`
	DeleteRemaining   bool                    `json:"delete_remaining"`
	TagIDs            *[]domain.FlexID        `json:"tag_ids"`
	MuscleGroupIDs    *[]domain.FlexID        `json:"muscle_group_ids"`
	EquipmentIDs      *[]domain.FlexID        `json:"equipment_ids"`
}

type reorderRequest struct {
	Items []struct {
		ID    domain.FlexID `json:"id"`
		Order int           `json:"order"`
	} `json:"items"`
}

type namedDTO struct {
	ID   domain.FlexID `json:"id"`
	Name string        `json:"name"`
}

type exerciseDTO struct {
	ID             domain.FlexID  `json:"id"`
	ExerciseID     domain.FlexID  `json:"exercise_id"`
	Order          int            `json:"order"`
	Sets           int            `json:"sets"`
	Repetitions    int            `json:"repetitions"`
	Duration       int            `json:"duration"`
	RestTime       int            `json:"rest_time"`
	SupersetWithID *domain.FlexID `json:"superset_with_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type planDTO struct {
	ID                domain.FlexID  `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Difficulty        string         `json:"difficulty"`
	Category          string         `json:"category"`
	EstimatedDuration int            `json:"estimated_duration"`
	Popularity        int            `json:"popularity"`
	Rating            float64        `json:"rating"`
	IsCustom          bool           `json:"is_custom"`
	CreatorID         *domain.FlexID `json:"creator_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	Exercises         []exerciseDTO  `json:"exercises"`
	Tags              []namedDTO     `json:"tags"`
	MuscleGroups      []namedDTO     `json:"muscle_groups"`
	Equipment         []namedDTO     `json:"equipment"`
}

type planListResponse struct {
	Plans []planDTO `json:"plans"`
	Total int       `json:"total"`
}

type reorderResponse struct {
	Updated int             `json:"updated"`
	Skipped []domain.FlexID `json:"skipped"`
}

func toPlanDTO(p *domain.WorkoutPlan) planDTO {
	dto := planDTO{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Difficulty:        p.Difficulty.String(),
		Category:          p.Category.String(),
		EstimatedDuration: p.EstimatedDuration,
		Popularity:        p.Popularity,
		Rating:            p.Rating,
		IsCustom:          p.IsCustom,
		CreatorID:         p.CreatorID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Exercises:         make([]exerciseDTO, 0, len(p.Exercises)),
		Tags:              make([]namedDTO, 0, len(p.Tags)),
		MuscleGroups:      make([]namedDTO, 0, len(p.MuscleGroups)),
		Equipment:         make([]namedDTO, 0, len(p.Equipment)),
	}
	for _, e := range p.Exercises {
		dto.Exercises = append(dto.Exercises, exerciseDTO{
			ID:             e.ID,
			ExerciseID:     e.ExerciseID,
			Order:          e.Order,
			Sets:           e.Sets,
			Repetitions:    e.Repetitions,
			Duration:       e.Duration,
			RestTime:       e.RestTime,
			SupersetWithID: e.SupersetWithID,
			CreatedAt:      e.CreatedAt,
			UpdatedAt:      e.UpdatedAt,
		})
	}
	for _, t := range p.Tags {
		dto.Tags = append(dto.Tags, namedDTO{ID: t.ID, Name: t.Name})
	}
	for _, m := range p.MuscleGroups {
		dto.MuscleGroups = append(dto.MuscleGroups, namedDTO{ID: m.ID, Name: m.Name})
	}
	for _, e := range p.Equipment {
		dto.Equipment = append(dto.Equipment, namedDTO{ID: e.ID, Name: e.Name})
	}
	return dto
}

// Create handles POST /plans.
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	input := workoutplan.CreateInput{
		Name:              req.Name,
		Description:       req.Description,
		Difficulty:        req.Difficulty,
		Category:          req.Category,
		EstimatedDuration: req.EstimatedDuration,
		TagIDs:            req.TagIDs,
		MuscleGroupIDs:    req.MuscleGroupIDs,
		EquipmentIDs:      req.EquipmentIDs,
	}
	for _, e := range req.Exercises {
		input.Exercises = append(input.Exercises, e.toInput())
	}

	plan, err := h.plans.Create(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanDTO(plan))
}

// Get handles GET /plans/{id}.
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	plan, err := h.plans.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// List handles GET /plans.
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	input, err := listInputFromQuery(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	result, err := h.plans.List(r.Context(), input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := planListResponse{
		Plans: make([]planDTO, 0, len(result.Plans)),
		Total: result.Total,
	}
	for _, p := range result.Plans {
		resp.Plans = append(resp.Plans, toPlanDTO(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PATCH /plans/{id}.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req updatePlanRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	input := workoutplan.UpdateInput{
		Name:              req.Name,
		Description:       req.Description,
		Difficulty:        req.Difficulty,
		Category:          req.Category,
		EstimatedDuration: req.EstimatedDuration,
		DeleteRemaining:   req.DeleteRemaining,
		TagIDs:            req.TagIDs,
		MuscleGroupIDs:    req.MuscleGroupIDs,
		EquipmentIDs:      req.EquipmentIDs,
	}
	for _, e := range req.Exercises {
		input.Exercises = append(input.Exercises, e.toInput())
	}

	plan, err := h.plans.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// Delete handles DELETE /plans/{id}.
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.plans.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddExercise handles POST /plans/{id}/exercises.
func (h *PlanHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req exercisePayload
	if !h.readJSON(w, r, &req) {
		return
	}

	plan, err := h.plans.AddExercise(r.Context(), id, req.toInput())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanDTO(plan))
}

// UpdateExercise handles PATCH /plans/{id}/exercises/{exerciseID}.
func (h *PlanHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	planID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	exerciseID, ok := h.pathID(w, r, "exerciseID")
	if !ok {
		return
	}
	var req exercisePayload
	if !h.readJSON(w, r, &req) {
		return
	}

	plan, err := h.plans.UpdateExercise(r.Context(), planID, exerciseID, req.toInput())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// RemoveExercise handles DELETE /plans/{id}/exercises/{exerciseID}.
func (h *PlanHandler) RemoveExercise(w http.ResponseWriter, r *http.Request) {
	planID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	exerciseID, ok := h.pathID(w, r, "exerciseID")
	if !ok {
		return
	}

	plan, err := h.plans.RemoveExercise(r.Context(), planID, exerciseID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan))
}

// Reorder handles PUT /plans/{id}/exercises/order.
func (h *PlanHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req reorderRequest
	if !h.readJSON(w, r, &req) {
		return
	}

	items := make([]domain.ReorderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.ReorderItem{ID: it.ID, Order: it.Order})
	}

	report, err := h.plans.Reorder(r.Context(), id, items)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, reorderResponse{
		Updated: len(report.Updated),
		Skipped: report.Skipped,
	})
}

func (h *PlanHandler) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "malformed JSON body",
			Code:  "BAD_REQUEST",
		})
		return false
	}
	return true
}

func (h *PlanHandler) pathID(w http.ResponseWriter, r *http.Request, name string) (domain.FlexID, bool) {
	id := domain.IDFromString(r.PathValue(name))
	if id.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "missing " + name + " path parameter",
			Code:  "BAD_REQUEST",
		})
		return domain.FlexID{}, false
	}
	return id, true
}

func listInputFromQuery(r *http.Request) (workoutplan.ListInput, error) {
	q := r.URL.Query()
	var f domain.PlanFilter

	if v := q.Get("search"); v != "" {
		f.Search = &v
	}
	if v := q.Get("difficulty"); v != "" {
		d := domain.Difficulty(strings.ToUpper(v))
		if !d.IsValid() {
			return workoutplan.ListInput{}, domain.NewValidationError("difficulty", "unknown value")
		}
		f.Difficulty = &d
	}
	if v := q.Get("category"); v != "" {
		c := domain.WorkoutCategory(strings.ToUpper(v))
		if !c.IsValid() {
			return workoutplan.ListInput{}, domain.NewValidationError("category", "unknown value")
		}
		f.Category = &c
	}

	var err error
	if f.MinDuration, err = queryIntPtr(q.Get("min_duration"), "min_duration"); err != nil {
		return workoutplan.ListInput{}, err
	}
	if f.MaxDuration, err = queryIntPtr(q.Get("max_duration"), "max_duration"); err != nil {
		return workoutplan.ListInput{}, err
	}

	f.TagIDs = queryIDs(q.Get("tag_ids"))
	f.MuscleGroupIDs = queryIDs(q.Get("muscle_group_ids"))
	f.EquipmentIDs = queryIDs(q.Get("equipment_ids"))

	f.IncludeCustomOnly = q.Get("custom_only") == "true"
	f.SortBy = q.Get("sort_by")
	f.SortOrder = q.Get("sort_order")

	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.Atoi(v); err != nil {
			return workoutplan.ListInput{}, domain.NewValidationError("limit", "must be an integer")
		}
	}
	if v := q.Get("offset"); v != "" {
		if f.Offset, err = strconv.Atoi(v); err != nil {
			return workoutplan.ListInput{}, domain.NewValidationError("offset", "must be an integer")
		}
	}

	return workoutplan.ListInput{
		Filter:   f,
		MineOnly: q.Get("mine") == "true",
	}, nil
}

func queryIntPtr(raw, field string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be an integer")
	}
	return &n, nil
}

// queryIDs parses a comma-separated identifier list; blanks are dropped.
func queryIDs(raw string) []domain.FlexID {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]domain.FlexID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ids = append(ids, domain.IDFromString(p))
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
