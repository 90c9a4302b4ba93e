package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type blockRepository interface {
	List(ctx context.Context, filter models.BlockFilter) ([]models.DailyBlock, int, error)
	FindByID(ctx context.Context, id int64) (*models.DailyBlock, error)
	Create(ctx context.Context, block *models.DailyBlock) error
	Update(ctx context.Context, block *models.DailyBlock) error
	Delete(ctx context.Context, id int64) error
}

// BlockService manages date-scoped blocks.
type BlockService struct {
	repo      blockRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBlockService constructs the service.
func NewBlockService(repo blockRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *BlockService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &BlockService{repo: repo, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("block_type", func(fl validator.FieldLevel) bool {
		return models.BlockType(fl.Field().String()).Valid()
	})
	return svc
}

// BlockListRequest describes filters for listing blocks.
type BlockListRequest struct {
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	BlockType string     `json:"block_type"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// CreateBlockRequest describes create payload.
type CreateBlockRequest struct {
	BlockDate  time.Time `json:"block_date" validate:"required"`
	BlockType  string    `json:"block_type" validate:"required,block_type"`
	Identifier string    `json:"identifier"`
	Notes      string    `json:"notes"`
}

// UpdateBlockRequest describes update payload.
type UpdateBlockRequest struct {
	BlockDate  time.Time `json:"block_date" validate:"required"`
	BlockType  string    `json:"block_type" validate:"required,block_type"`
	Identifier string    `json:"identifier"`
	Notes      string    `json:"notes"`
}

// List returns blocks with pagination.
func (s *BlockService) List(ctx context.Context, req BlockListRequest) ([]models.DailyBlock, *models.Pagination, error) {
	filter := models.BlockFilter{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.BlockType != "" {
		blockType := models.BlockType(req.BlockType)
		filter.BlockType = &blockType
	}
	blocks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return blocks, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one block.
func (s *BlockService) Get(ctx context.Context, id int64) (*models.DailyBlock, error) {
	block, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load block")
	}
	return block, nil
}

// Create records a new daily block.
func (s *BlockService) Create(ctx context.Context, req CreateBlockRequest) (*models.DailyBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}
	block := &models.DailyBlock{
		BlockDate:  req.BlockDate,
		BlockType:  models.BlockType(req.BlockType),
		Identifier: req.Identifier,
		Notes:      req.Notes,
	}
	if err := s.repo.Create(ctx, block); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create block")
	}
	s.invalidate(ctx)
	return block, nil
}

// Update replaces a block's attributes.
func (s *BlockService) Update(ctx context.Context, id int64, req UpdateBlockRequest) (*models.DailyBlock, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid block payload")
	}
	block := &models.DailyBlock{
		ID:         id,
		BlockDate:  req.BlockDate,
		BlockType:  models.BlockType(req.BlockType),
		Identifier: req.Identifier,
		Notes:      req.Notes,
	}
	if err := s.repo.Update(ctx, block); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update block")
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes a block.
func (s *BlockService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete block")
	}
	s.invalidate(ctx)
	return nil
}

func (s *BlockService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "fillin:*"); err != nil {
		s.logger.Warn("failed to invalidate fill-in cache", zap.Error(err))
	}
}
