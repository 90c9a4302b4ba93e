package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type mockBlockRepo struct {
	blocks  []models.DailyBlock
	total   int
	block   *models.DailyBlock
	findErr error
	created *models.DailyBlock
}

func (m *mockBlockRepo) List(ctx context.Context, filter models.BlockFilter) ([]models.DailyBlock, int, error) {
	return m.blocks, m.total, nil
}

func (m *mockBlockRepo) FindByID(ctx context.Context, id int64) (*models.DailyBlock, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.block, nil
}

func (m *mockBlockRepo) Create(ctx context.Context, block *models.DailyBlock) error {
	block.ID = 1
	m.created = block
	return nil
}

func (m *mockBlockRepo) Update(ctx context.Context, block *models.DailyBlock) error {
	m.block = block
	return nil
}

func (m *mockBlockRepo) Delete(ctx context.Context, id int64) error {
	return m.findErr
}

func newBlockService(repo *mockBlockRepo) *BlockService {
	return NewBlockService(repo, nil, validator.New(), zap.NewNop())
}

func TestBlockServiceCreateValidatesType(t *testing.T) {
	svc := newBlockService(&mockBlockRepo{})

	_, err := svc.Create(context.Background(), CreateBlockRequest{BlockDate: monday(), BlockType: "LONG_WEEKEND"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBlockServiceCreateSuccess(t *testing.T) {
	repo := &mockBlockRepo{}
	svc := newBlockService(repo)

	block, err := svc.Create(context.Background(), CreateBlockRequest{
		BlockDate:  monday(),
		BlockType:  string(models.BlockYearLevelAbsence),
		Identifier: "Year 7",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), block.ID)
	assert.Equal(t, models.BlockYearLevelAbsence, repo.created.BlockType)
}

func TestBlockServiceGetNotFound(t *testing.T) {
	svc := newBlockService(&mockBlockRepo{findErr: sql.ErrNoRows})

	_, err := svc.Get(context.Background(), 5)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestBlockServiceDeleteNotFound(t *testing.T) {
	svc := newBlockService(&mockBlockRepo{findErr: sql.ErrNoRows})

	err := svc.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
