package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/russ8887/coach-tool-api/internal/models"
)

// BlockRepository manages date-scoped daily block records.
type BlockRepository struct {
	db *sqlx.DB
}

// NewBlockRepository constructs a BlockRepository.
func NewBlockRepository(db *sqlx.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

const blockColumns = `b.id, b.block_date, b.block_type, COALESCE(b.identifier, '') AS identifier, COALESCE(b.notes, '') AS notes, b.created_at`

// List returns daily blocks matching the provided filters.
func (r *BlockRepository) List(ctx context.Context, filter models.BlockFilter) ([]models.DailyBlock, int, error) {
	base := "FROM daily_blocks b"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("b.block_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("b.block_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if filter.BlockType != nil {
		conditions = append(conditions, fmt.Sprintf("b.block_type = $%d", len(args)+1))
		args = append(args, *filter.BlockType)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY b.block_date, b.id LIMIT %d OFFSET %d", blockColumns, base, size, offset)

	var blocks []models.DailyBlock
	if err := r.db.SelectContext(ctx, &blocks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list blocks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count blocks: %w", err)
	}
	return blocks, total, nil
}

// ListByDates returns all blocks falling on any of the given dates.
func (r *BlockRepository) ListByDates(ctx context.Context, dates []time.Time) ([]models.DailyBlock, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM daily_blocks b WHERE b.block_date IN (?) ORDER BY b.block_date, b.id", blockColumns), dates)
	if err != nil {
		return nil, fmt.Errorf("build blocks query: %w", err)
	}

	var blocks []models.DailyBlock
	if err := r.db.SelectContext(ctx, &blocks, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list blocks by dates: %w", err)
	}
	return blocks, nil
}

// FindByID fetches a daily block by ID.
func (r *BlockRepository) FindByID(ctx context.Context, id int64) (*models.DailyBlock, error) {
	query := fmt.Sprintf("SELECT %s FROM daily_blocks b WHERE b.id = $1", blockColumns)
	var block models.DailyBlock
	if err := r.db.GetContext(ctx, &block, query, id); err != nil {
		return nil, err
	}
	return &block, nil
}

// Create inserts a new daily block and assigns the generated id.
func (r *BlockRepository) Create(ctx context.Context, block *models.DailyBlock) error {
	if block.CreatedAt.IsZero() {
		block.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO daily_blocks (block_date, block_type, identifier, notes, created_at)
        VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		block.BlockDate, block.BlockType, block.Identifier, block.Notes, block.CreatedAt,
	).Scan(&block.ID); err != nil {
		return fmt.Errorf("create block: %w", err)
	}
	return nil
}

// Update modifies an existing daily block.
func (r *BlockRepository) Update(ctx context.Context, block *models.DailyBlock) error {
	const query = `UPDATE daily_blocks SET block_date = $2, block_type = $3, identifier = NULLIF($4, ''), notes = NULLIF($5, '') WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		block.ID, block.BlockDate, block.BlockType, block.Identifier, block.Notes,
	); err != nil {
		return fmt.Errorf("update block: %w", err)
	}
	return nil
}

// Delete removes a daily block.
func (r *BlockRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM daily_blocks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}
