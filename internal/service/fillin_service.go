package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/dto"
	"github.com/russ8887/coach-tool-api/internal/fillin"
	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

// SlotInstanceReader provides slot occupancy resolved for a concrete date.
type SlotInstanceReader interface {
	FindInstance(ctx context.Context, id int64, date time.Time) (*models.SlotInstance, error)
	ListInstances(ctx context.Context, date time.Time) ([]models.SlotInstance, error)
}

// RosterReader provides the active student roster.
type RosterReader interface {
	ListRoster(ctx context.Context) ([]models.Student, error)
}

// BlockReader provides date-scoped daily blocks.
type BlockReader interface {
	ListByDates(ctx context.Context, dates []time.Time) ([]models.DailyBlock, error)
}

// FillInService produces fill-in recommendations for slots with free capacity.
type FillInService struct {
	slots    SlotInstanceReader
	students RosterReader
	blocks   BlockReader
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewFillInService constructs a fill-in service.
func NewFillInService(slots SlotInstanceReader, students RosterReader, blocks BlockReader, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *FillInService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FillInService{slots: slots, students: students, blocks: blocks, cache: cache, metrics: metrics, logger: logger}
}

func fillInCacheKey(date time.Time) string {
	return fmt.Sprintf("fillin:date:%s", date.Format("2006-01-02"))
}

// SuggestForDate recommends fill-in groups for every slot on the given date
// that still has free effective capacity. The boolean reports a cache hit.
func (s *FillInService) SuggestForDate(ctx context.Context, date time.Time) ([]dto.SlotRecommendation, bool, error) {
	if date.IsZero() {
		return nil, false, appErrors.ErrMissingSlotDate
	}

	key := fillInCacheKey(date)
	if s.cache.Enabled() {
		var cached []dto.SlotRecommendation
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return cached, true, nil
		}
	}

	start := time.Now()

	instances, err := s.slots.ListInstances(ctx, date)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slot instances")
	}
	roster, err := s.students.ListRoster(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student roster")
	}
	blocks, err := s.blocks.ListByDates(ctx, []time.Time{date})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily blocks")
	}

	avail := fillin.NewCache()
	results := make([]dto.SlotRecommendation, 0, len(instances))
	for _, inst := range instances {
		needed := fillin.EffectiveCapacity(inst) - len(inst.CurrentOccupants)
		if needed <= 0 {
			continue
		}
		candidates := fillin.FilterCandidates(roster, inst, blocks, avail)
		results = append(results, buildRecommendation(inst, candidates))
	}

	if s.metrics != nil {
		s.metrics.ObserveRecommendation("batch", time.Since(start))
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, results, 0); err != nil {
			s.logger.Warn("failed to cache fill-in recommendations", zap.String("key", key), zap.Error(err))
		}
	}
	return results, false, nil
}

// SuggestForSlot recommends a fill-in group for a single slot instance.
// It always reads fresh occupancy so interactive callers see their own changes.
func (s *FillInService) SuggestForSlot(ctx context.Context, slotID int64, date time.Time) (*dto.SlotRecommendation, error) {
	if date.IsZero() {
		return nil, appErrors.ErrMissingSlotDate
	}

	start := time.Now()

	inst, err := s.slots.FindInstance(ctx, slotID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot instance")
	}
	roster, err := s.students.ListRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student roster")
	}
	blocks, err := s.blocks.ListByDates(ctx, []time.Time{date})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily blocks")
	}

	candidates := fillin.FilterCandidates(roster, *inst, blocks, fillin.NewCache())
	rec := buildRecommendation(*inst, candidates)

	if s.metrics != nil {
		s.metrics.ObserveRecommendation("interactive", time.Since(start))
	}
	return &rec, nil
}

func buildRecommendation(inst models.SlotInstance, candidates []models.Student) dto.SlotRecommendation {
	effective := fillin.EffectiveCapacity(inst)
	needed := effective - len(inst.CurrentOccupants)
	if needed < 0 {
		needed = 0
	}

	occupants := make([]dto.OccupantSummary, 0, len(inst.CurrentOccupants))
	for _, o := range inst.CurrentOccupants {
		occupants = append(occupants, dto.OccupantSummary{
			StudentID: o.ID,
			Name:      o.Name,
			GroupOf:   o.GroupOf,
			SubGroup:  o.SubGroup,
		})
	}

	return dto.SlotRecommendation{
		SlotID:            inst.ID,
		CoachID:           inst.CoachID,
		CoachName:         inst.CoachName,
		DayOfWeek:         inst.DayOfWeek,
		StartTime:         inst.StartTime,
		SlotDate:          inst.SlotDate.Format("2006-01-02"),
		Capacity:          inst.Capacity,
		EffectiveCapacity: effective,
		NeededCount:       needed,
		CurrentOccupants:  occupants,
		RecommendedGroup:  fillin.Recommend(inst, candidates),
	}
}
