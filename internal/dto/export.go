package dto

import "github.com/russ8887/coach-tool-api/internal/models"

// ExportJobResponse acknowledges a queued export.
type ExportJobResponse struct {
	ID       string                 `json:"id"`
	Status   models.ExportJobStatus `json:"status"`
	Progress int                    `json:"progress"`
}

// ExportStatusResponse reports job progress and, once finished, the signed
// download URL.
type ExportStatusResponse struct {
	ID        string                 `json:"id"`
	Status    models.ExportJobStatus `json:"status"`
	Progress  int                    `json:"progress"`
	ResultURL *string                `json:"result_url,omitempty"`
	Error     *string                `json:"error,omitempty"`
}
