package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/russ8887/coach-tool-api/internal/dto"
	"github.com/russ8887/coach-tool-api/pkg/response"
)

type fillInRecommender interface {
	SuggestForDate(ctx context.Context, date time.Time) ([]dto.SlotRecommendation, bool, error)
	SuggestForSlot(ctx context.Context, slotID int64, date time.Time) (*dto.SlotRecommendation, error)
}

// FillInHandler exposes fill-in recommendation endpoints.
type FillInHandler struct {
	fillIns fillInRecommender
}

// NewFillInHandler constructs FillInHandler.
func NewFillInHandler(fillIns fillInRecommender) *FillInHandler {
	return &FillInHandler{fillIns: fillIns}
}

// ListForDate godoc
// @Summary Recommend fill-ins for a date
// @Description Recommends make-up students for every slot with free capacity on the date
// @Tags FillIns
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /fill-ins [get]
func (h *FillInHandler) ListForDate(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	recs, cached, err := h.fillIns.SuggestForDate(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs, nil, map[string]interface{}{"cached": cached})
}

// ForSlot godoc
// @Summary Recommend fill-ins for one slot
// @Description Recommends make-up students for a single slot instance with fresh occupancy
// @Tags FillIns
// @Produce json
// @Param id path int true "Slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id}/fill-ins [get]
func (h *FillInHandler) ForSlot(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	rec, err := h.fillIns.SuggestForSlot(c.Request.Context(), id, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}
