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

type attendanceRepository interface {
	MarkAbsent(ctx context.Context, absence *models.Absence) error
	RemoveAbsence(ctx context.Context, slotID, studentID int64, date time.Time) error
	AssignFillIn(ctx context.Context, assignment *models.FillInAssignment) error
	RemoveFillIn(ctx context.Context, slotID, studentID int64, date time.Time) error
}

type owedAdjuster interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	AdjustLessonsOwed(ctx context.Context, id int64, delta int) (*models.Student, error)
}

// AttendanceService records absences and fill-in assignments, keeping the
// lessons-owed balance in step with both.
type AttendanceService struct {
	repo      attendanceRepository
	students  owedAdjuster
	slots     SlotInstanceReader
	blocks    BlockReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, students owedAdjuster, slots SlotInstanceReader, blocks BlockReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, students: students, slots: slots, blocks: blocks, cache: cache, validator: validate, logger: logger}
}

// MarkAbsentRequest describes an absence record.
type MarkAbsentRequest struct {
	StudentID int64     `json:"student_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Reason    string    `json:"reason"`
}

// AssignFillInRequest describes assigning a student into a slot instance.
type AssignFillInRequest struct {
	StudentID int64     `json:"student_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
}

// MarkAbsent records an absence for a slot instance and credits the student
// one owed lesson. Marking the same absence twice is a no-op for the record
// but is rejected before the balance is touched.
func (s *AttendanceService) MarkAbsent(ctx context.Context, slotID int64, req MarkAbsentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	inst, err := s.slots.FindInstance(ctx, slotID, req.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot instance")
	}
	if !memberOf(inst.OriginalStudents, req.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not enrolled in this slot")
	}

	absence := &models.Absence{
		SlotID:    slotID,
		StudentID: req.StudentID,
		Date:      req.Date,
		Reason:    req.Reason,
	}
	recorded, err := s.markAbsence(ctx, absence)
	if err != nil {
		return nil, err
	}
	if !recorded {
		return nil, appErrors.Clone(appErrors.ErrConflict, "absence already recorded")
	}

	student, err := s.students.AdjustLessonsOwed(ctx, req.StudentID, 1)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to credit lessons owed")
	}
	s.invalidate(ctx)
	return student, nil
}

// ClearAbsence removes an absence record and debits the owed lesson it granted.
func (s *AttendanceService) ClearAbsence(ctx context.Context, slotID, studentID int64, date time.Time) error {
	if date.IsZero() {
		return appErrors.ErrMissingSlotDate
	}
	if err := s.repo.RemoveAbsence(ctx, slotID, studentID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear absence")
	}
	if _, err := s.students.AdjustLessonsOwed(ctx, studentID, -1); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to debit lessons owed")
	}
	s.invalidate(ctx)
	return nil
}

// AssignFillIn places a student into a slot instance as a make-up lesson.
// Placement is re-validated against fresh occupancy, the student's
// availability, and any daily blocks before the assignment is stored.
func (s *AttendanceService) AssignFillIn(ctx context.Context, slotID int64, req AssignFillInRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fill-in payload")
	}
	inst, err := s.slots.FindInstance(ctx, slotID, req.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot instance")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is inactive")
	}
	if student.LessonsOwed <= 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has no lessons owed")
	}
	if memberOf(inst.OriginalStudents, student.ID) || memberOf(inst.CurrentOccupants, student.ID) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already belongs to this slot instance")
	}
	if !fillin.ParseWeeklyAvailability(student.Availability).IsAvailable(inst.DayOfWeek, inst.StartTime) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not available at this time")
	}
	blocks, err := s.blocks.ListByDates(ctx, []time.Time{req.Date})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load daily blocks")
	}
	if fillin.IsBlocked(*student, req.Date, inst.CoachID, blocks) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is blocked on this date")
	}
	if placement := fillin.CheckPlacement(*student, inst.CurrentOccupants, fillin.EffectiveCapacity(*inst)); placement.Violation {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, placement.Reason)
	}

	assignment := &models.FillInAssignment{
		SlotID:    slotID,
		StudentID: student.ID,
		Date:      req.Date,
	}
	if err := s.repo.AssignFillIn(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record fill-in assignment")
	}
	updated, err := s.students.AdjustLessonsOwed(ctx, student.ID, -1)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to debit lessons owed")
	}
	s.invalidate(ctx)
	return updated, nil
}

// RemoveFillIn undoes an assignment and restores the owed lesson.
func (s *AttendanceService) RemoveFillIn(ctx context.Context, slotID, studentID int64, date time.Time) error {
	if date.IsZero() {
		return appErrors.ErrMissingSlotDate
	}
	if err := s.repo.RemoveFillIn(ctx, slotID, studentID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove fill-in assignment")
	}
	if _, err := s.students.AdjustLessonsOwed(ctx, studentID, 1); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore lessons owed")
	}
	s.invalidate(ctx)
	return nil
}

func (s *AttendanceService) markAbsence(ctx context.Context, absence *models.Absence) (bool, error) {
	if err := s.repo.MarkAbsent(ctx, absence); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record absence")
	}
	return absence.ID != 0, nil
}

func (s *AttendanceService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "fillin:*"); err != nil {
		s.logger.Warn("failed to invalidate fill-in cache", zap.Error(err))
	}
}

func memberOf(students []models.Student, id int64) bool {
	for _, st := range students {
		if st.ID == id {
			return true
		}
	}
	return false
}
