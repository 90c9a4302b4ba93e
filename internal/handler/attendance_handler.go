package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/russ8887/coach-tool-api/internal/service"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
	"github.com/russ8887/coach-tool-api/pkg/response"
)

// AttendanceHandler exposes absence and fill-in assignment endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// MarkAbsent godoc
// @Summary Mark a student absent
// @Description Records an absence for one slot instance and credits an owed lesson
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path int true "Slot ID"
// @Param payload body service.MarkAbsentRequest true "Absence payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/absences [post]
func (h *AttendanceHandler) MarkAbsent(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.MarkAbsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.attendance.MarkAbsent(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// ClearAbsence godoc
// @Summary Clear an absence
// @Description Removes an absence record and debits the owed lesson it granted
// @Tags Attendance
// @Produce json
// @Param id path int true "Slot ID"
// @Param studentId path int true "Student ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 204
// @Router /schedules/{id}/absences/{studentId} [delete]
func (h *AttendanceHandler) ClearAbsence(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := idParam(c, "studentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.attendance.ClearAbsence(c.Request.Context(), id, studentID, date); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AssignFillIn godoc
// @Summary Assign a fill-in
// @Description Places a student into a slot instance and debits an owed lesson
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path int true "Slot ID"
// @Param payload body service.AssignFillInRequest true "Fill-in payload"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /schedules/{id}/fill-ins [post]
func (h *AttendanceHandler) AssignFillIn(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AssignFillInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.attendance.AssignFillIn(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// RemoveFillIn godoc
// @Summary Remove a fill-in
// @Description Undoes a fill-in assignment and restores the owed lesson
// @Tags Attendance
// @Produce json
// @Param id path int true "Slot ID"
// @Param studentId path int true "Student ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 204
// @Router /schedules/{id}/fill-ins/{studentId} [delete]
func (h *AttendanceHandler) RemoveFillIn(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := idParam(c, "studentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	date, err := dateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.attendance.RemoveFillIn(c.Request.Context(), id, studentID, date); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
