package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russ8887/coach-tool-api/internal/dto"
	"github.com/russ8887/coach-tool-api/internal/middleware"
	"github.com/russ8887/coach-tool-api/internal/models"
	"github.com/russ8887/coach-tool-api/internal/service"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type fakeExportJobSrv struct {
	createResp  *dto.ExportJobResponse
	createErr   error
	statusResp  *dto.ExportStatusResponse
	statusErr   error
	download    *service.ExportDownload
	downloadErr error
}

func (f *fakeExportJobSrv) CreateJob(_ context.Context, req service.CreateExportJobRequest, actorID string) (*dto.ExportJobResponse, error) {
	return f.createResp, f.createErr
}

func (f *fakeExportJobSrv) GetStatus(_ context.Context, id string, actorID string, role models.UserRole) (*dto.ExportStatusResponse, error) {
	return f.statusResp, f.statusErr
}

func (f *fakeExportJobSrv) ResolveDownload(_ context.Context, token string) (*service.ExportDownload, error) {
	return f.download, f.downloadErr
}

func TestExportHandlerCreateJobAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(nil, &fakeExportJobSrv{
		createResp: &dto.ExportJobResponse{ID: "job-1", Status: models.ExportStatusQueued},
	})

	payload, _ := json.Marshal(service.CreateExportJobRequest{Date: "2025-03-03", Format: "csv"})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exports/fill-ins/jobs", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.CreateJob(c)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var job dto.ExportJobResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &job))
	assert.Equal(t, "job-1", job.ID)
}

func TestExportHandlerCreateJobRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(nil, &fakeExportJobSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/exports/fill-ins/jobs", bytes.NewReader([]byte(`{}`)))

	handler.CreateJob(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportHandlerJobStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	url := "/api/v1/exports/downloads/token"
	handler := NewExportHandler(nil, &fakeExportJobSrv{
		statusResp: &dto.ExportStatusResponse{ID: "job-1", Status: models.ExportStatusFinished, Progress: 100, ResultURL: &url},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/jobs/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.JobStatus(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var status dto.ExportStatusResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &status))
	assert.Equal(t, models.ExportStatusFinished, status.Status)
	require.NotNil(t, status.ResultURL)
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.Create(filepath.Join(t.TempDir(), "fill-ins-2025-03-03.csv"))
	require.NoError(t, err)
	_, _ = file.WriteString("Slot ID,Coach\n1,Dana\n")
	_, _ = file.Seek(0, 0)

	handler := NewExportHandler(nil, &fakeExportJobSrv{
		download: &service.ExportDownload{
			File:      file,
			Filename:  "fill-ins-2025-03-03.csv",
			Format:    service.ExportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/downloads/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "fill-ins-2025-03-03.csv")
	assert.Contains(t, rec.Body.String(), "Dana")
}

func TestExportHandlerDownloadInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(nil, &fakeExportJobSrv{
		downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/exports/downloads/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	handler.Download(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
