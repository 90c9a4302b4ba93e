package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Deactivate(ctx context.Context, id int64) error
	AdjustLessonsOwed(ctx context.Context, id int64, delta int) (*models.Student, error)
}

// StudentService handles the student roster.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo studentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// StudentListRequest describes filters for listing students.
type StudentListRequest struct {
	Search    string `json:"search"`
	Active    *bool  `json:"active"`
	Owing     bool   `json:"owing"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// CreateStudentRequest describes create payload.
type CreateStudentRequest struct {
	Name         string `json:"name" validate:"required"`
	GroupOf      int    `json:"group_of" validate:"required,min=1"`
	SubGroup     string `json:"sub_group"`
	LessonsOwed  int    `json:"lessons_owed" validate:"min=0"`
	Availability string `json:"availability"`
	ClassName    string `json:"class_name"`
}

// UpdateStudentRequest describes update payload.
type UpdateStudentRequest struct {
	Name         string `json:"name" validate:"required"`
	GroupOf      int    `json:"group_of" validate:"required,min=1"`
	SubGroup     string `json:"sub_group"`
	LessonsOwed  int    `json:"lessons_owed" validate:"min=0"`
	Availability string `json:"availability"`
	ClassName    string `json:"class_name"`
	Active       bool   `json:"active"`
}

// AdjustLessonsOwedRequest describes the manual owed-balance correction.
type AdjustLessonsOwedRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// List returns students with pagination.
func (s *StudentService) List(ctx context.Context, req StudentListRequest) ([]models.Student, *models.Pagination, error) {
	filter := models.StudentFilter{
		Search:    req.Search,
		Active:    req.Active,
		Owing:     req.Owing,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		Name:         req.Name,
		GroupOf:      req.GroupOf,
		SubGroup:     req.SubGroup,
		LessonsOwed:  req.LessonsOwed,
		Availability: req.Availability,
		ClassName:    req.ClassName,
		Active:       true,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidate(ctx)
	return student, nil
}

// Update replaces a student's attributes.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := &models.Student{
		ID:           id,
		Name:         req.Name,
		GroupOf:      req.GroupOf,
		SubGroup:     req.SubGroup,
		LessonsOwed:  req.LessonsOwed,
		Availability: req.Availability,
		ClassName:    req.ClassName,
		Active:       req.Active,
	}
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Deactivate soft-deletes a student, keeping history intact.
func (s *StudentService) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	s.invalidate(ctx)
	return nil
}

// AdjustLessonsOwed applies a manual delta to the owed balance.
func (s *StudentService) AdjustLessonsOwed(ctx context.Context, id int64, req AdjustLessonsOwedRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid adjustment payload")
	}
	student, err := s.repo.AdjustLessonsOwed(ctx, id, req.Delta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to adjust lessons owed")
	}
	s.invalidate(ctx)
	return student, nil
}

func (s *StudentService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "fillin:*"); err != nil {
		s.logger.Warn("failed to invalidate fill-in cache", zap.Error(err))
	}
}
