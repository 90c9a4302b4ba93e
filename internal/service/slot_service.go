package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/fillin"
	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type slotRepository interface {
	List(ctx context.Context, filter models.SlotFilter) ([]models.LessonSlot, int, error)
	FindByID(ctx context.Context, id int64) (*models.LessonSlot, error)
	Create(ctx context.Context, slot *models.LessonSlot) error
	Update(ctx context.Context, slot *models.LessonSlot) error
	Delete(ctx context.Context, id int64) error
	ReplaceMembers(ctx context.Context, slotID int64, studentIDs []int64) error
	FindInstance(ctx context.Context, id int64, date time.Time) (*models.SlotInstance, error)
}

// SlotService manages the weekly lesson timetable.
type SlotService struct {
	repo      slotRepository
	students  RosterReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSlotService constructs the service.
func NewSlotService(repo slotRepository, students RosterReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SlotService{repo: repo, students: students, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("day_of_week", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
			return true
		default:
			return false
		}
	})
	svc.validator.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	return svc
}

// SlotListRequest describes filters for listing slots.
type SlotListRequest struct {
	CoachID   int64  `json:"coach_id"`
	DayOfWeek string `json:"day_of_week"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
}

// CreateSlotRequest describes create payload.
type CreateSlotRequest struct {
	CoachID   int64  `json:"coach_id" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required,day_of_week"`
	StartTime string `json:"start_time" validate:"required,clock_time"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
}

// UpdateSlotRequest describes update payload.
type UpdateSlotRequest struct {
	CoachID   int64  `json:"coach_id" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required,day_of_week"`
	StartTime string `json:"start_time" validate:"required,clock_time"`
	Capacity  int    `json:"capacity" validate:"required,min=1"`
}

// ReplaceMembersRequest describes the full roster for one slot.
type ReplaceMembersRequest struct {
	StudentIDs []int64 `json:"student_ids" validate:"required"`
}

// List returns slots with pagination.
func (s *SlotService) List(ctx context.Context, req SlotListRequest) ([]models.LessonSlot, *models.Pagination, error) {
	filter := models.SlotFilter{
		CoachID:   req.CoachID,
		DayOfWeek: req.DayOfWeek,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	slots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return slots, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one slot.
func (s *SlotService) Get(ctx context.Context, id int64) (*models.LessonSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	return slot, nil
}

// GetInstance returns one slot resolved for a concrete date.
func (s *SlotService) GetInstance(ctx context.Context, id int64, date time.Time) (*models.SlotInstance, error) {
	if date.IsZero() {
		return nil, appErrors.ErrMissingSlotDate
	}
	inst, err := s.repo.FindInstance(ctx, id, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot instance")
	}
	return inst, nil
}

// Create adds a new weekly slot.
func (s *SlotService) Create(ctx context.Context, req CreateSlotRequest) (*models.LessonSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	slot := &models.LessonSlot{
		CoachID:   req.CoachID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		Capacity:  req.Capacity,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}
	s.invalidate(ctx)
	return slot, nil
}

// Update replaces a slot's schedule attributes.
func (s *SlotService) Update(ctx context.Context, id int64, req UpdateSlotRequest) (*models.LessonSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	slot := &models.LessonSlot{
		ID:        id,
		CoachID:   req.CoachID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		Capacity:  req.Capacity,
	}
	if err := s.repo.Update(ctx, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes a slot and its membership rows.
func (s *SlotService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}
	s.invalidate(ctx)
	return nil
}

// ReplaceMembers sets the full original roster for a slot. The new roster is
// checked against the slot's capacity semantics before being stored.
func (s *SlotService) ReplaceMembers(ctx context.Context, id int64, req ReplaceMembersRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	slot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if len(req.StudentIDs) > slot.Capacity {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "membership exceeds slot capacity")
	}
	roster, err := s.students.ListRoster(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student roster")
	}
	byID := make(map[int64]models.Student, len(roster))
	for _, st := range roster {
		byID[st.ID] = st
	}
	placed := make([]models.Student, 0, len(req.StudentIDs))
	for _, sid := range req.StudentIDs {
		st, ok := byID[sid]
		if !ok {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "unknown student in membership")
		}
		if p := fillin.CheckPlacement(st, placed, slot.Capacity); p.Violation {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, p.Reason)
		}
		placed = append(placed, st)
	}
	if err := s.repo.ReplaceMembers(ctx, id, req.StudentIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace slot members")
	}
	s.invalidate(ctx)
	return nil
}

func (s *SlotService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "fillin:*"); err != nil {
		s.logger.Warn("failed to invalidate fill-in cache", zap.Error(err))
	}
}
