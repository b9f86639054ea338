package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/service"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/response"
)

const defaultListingDepth = 2

// DataHandler exposes persistence, backup, export and job endpoints.
type DataHandler struct {
	data      *service.DataService
	backups   *service.BackupService
	exports   *service.ExportService
	jobs      *service.JobService
	validator *validator.Validate
}

// NewDataHandler constructs DataHandler. jobs may be nil, in which case async
// requests run inline.
func NewDataHandler(data *service.DataService, backups *service.BackupService, exports *service.ExportService, jobs *service.JobService, validate *validator.Validate) *DataHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &DataHandler{data: data, backups: backups, exports: exports, jobs: jobs, validator: validate}
}

// Save godoc
// @Summary Persist every collection
// @Tags Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /data/save [post]
func (h *DataHandler) Save(c *gin.Context) {
	counts, err := h.data.SaveAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

// Load godoc
// @Summary Replace in-memory collections with the saved snapshot
// @Tags Data
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /data/load [post]
func (h *DataHandler) Load(c *gin.Context) {
	counts, err := h.data.LoadAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts)
}

// Backup godoc
// @Summary Create a timestamped backup
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body dto.BackupRequest false "Backup options"
// @Success 201 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /backups [post]
func (h *DataHandler) Backup(c *gin.Context) {
	var req dto.BackupRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if req.Async && h.jobs != nil {
		job, err := h.jobs.SubmitBackup()
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, job)
		return
	}
	result, err := h.backups.CreateBackup(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// BackupSize godoc
// @Summary Total size of a directory under the backup folder
// @Tags Data
// @Produce json
// @Param path query string false "Directory relative to the backup folder"
// @Success 200 {object} response.Envelope
// @Router /backups/size [get]
func (h *DataHandler) BackupSize(c *gin.Context) {
	size, err := h.backups.DirectorySize(c.Query("path"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, size)
}

// BackupFiles godoc
// @Summary Depth-limited listing of the backup folder
// @Tags Data
// @Produce json
// @Param depth query int false "Maximum depth (default 2)"
// @Success 200 {object} response.Envelope
// @Router /backups/files [get]
func (h *DataHandler) BackupFiles(c *gin.Context) {
	depth, err := queryInt(c, "depth", defaultListingDepth)
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.backups.ListFiles(depth)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, entries)
}

// Export godoc
// @Summary Export a report as CSV or PDF
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export request"
// @Success 201 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *DataHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request"))
		return
	}
	if req.Async && h.jobs != nil {
		job, err := h.jobs.SubmitExport(req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, job)
		return
	}
	result, err := h.exports.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Job godoc
// @Summary Background job status
// @Tags Data
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /jobs/{id} [get]
func (h *DataHandler) Job(c *gin.Context) {
	if h.jobs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "background jobs are disabled"))
		return
	}
	job, err := h.jobs.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job)
}
