package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/dto"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
	"github.com/russ8887/coach-tool-api/pkg/export"
)

// ExportFormat identifies a supported export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type recommendationSource interface {
	SuggestForDate(ctx context.Context, date time.Time) ([]dto.SlotRecommendation, bool, error)
}

// ExportResult carries a rendered document ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the daily fill-in report as CSV or PDF.
type ExportService struct {
	fillIns recommendationSource
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	maxRows int
	logger  *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(fillIns recommendationSource, maxRows int, logger *zap.Logger) *ExportService {
	if maxRows <= 0 {
		maxRows = 10000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		fillIns: fillIns,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		maxRows: maxRows,
		logger:  logger,
	}
}

// FillInReport renders the recommendations for one date, one row per
// recommended student per slot.
func (s *ExportService) FillInReport(ctx context.Context, date time.Time, format ExportFormat) (*ExportResult, error) {
	if date.IsZero() {
		return nil, appErrors.ErrMissingSlotDate
	}

	recs, _, err := s.fillIns.SuggestForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Slot ID", "Coach", "Day", "Start", "Capacity", "Needed", "Student ID", "Student", "Lessons Owed", "Group Of", "Sub Group"},
	}
	for _, rec := range recs {
		for _, member := range rec.RecommendedGroup {
			if len(data.Rows) >= s.maxRows {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "report exceeds the configured row limit")
			}
			data.Rows = append(data.Rows, map[string]string{
				"Slot ID":      strconv.FormatInt(rec.SlotID, 10),
				"Coach":        rec.CoachName,
				"Day":          rec.DayOfWeek,
				"Start":        rec.StartTime,
				"Capacity":     strconv.Itoa(rec.EffectiveCapacity),
				"Needed":       strconv.Itoa(rec.NeededCount),
				"Student ID":   strconv.FormatInt(member.StudentID, 10),
				"Student":      member.Name,
				"Lessons Owed": strconv.Itoa(member.LessonsOwed),
				"Group Of":     strconv.Itoa(member.GroupOf),
				"Sub Group":    member.SubGroup,
			})
		}
	}

	day := date.Format("2006-01-02")
	switch format {
	case ExportFormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("fill-ins-%s.csv", day),
			ContentType: "text/csv",
			Body:        body,
		}, nil
	case ExportFormatPDF:
		body, err := s.pdf.Render(data, fmt.Sprintf("Fill-in Recommendations %s", day))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("fill-ins-%s.pdf", day),
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", strings.TrimSpace(string(format))))
	}
}
