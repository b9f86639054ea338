package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ccrm-api/internal/service"
	"github.com/noah-isme/ccrm-api/pkg/response"
)

// ReportHandler exposes the read-only reports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GPADistribution godoc
// @Summary GPA distribution across graded students
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/gpa-distribution [get]
func (h *ReportHandler) GPADistribution(c *gin.Context) {
	response.List(c, h.reports.GPADistribution())
}

// CourseStatistics godoc
// @Summary Course catalogue statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/courses [get]
func (h *ReportHandler) CourseStatistics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reports.CourseStatistics())
}

// StudentStatistics godoc
// @Summary Student statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/students [get]
func (h *ReportHandler) StudentStatistics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reports.StudentStatistics())
}

// CoursesByDepartment godoc
// @Summary Courses grouped by department
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/departments [get]
func (h *ReportHandler) CoursesByDepartment(c *gin.Context) {
	response.List(c, h.reports.CoursesByDepartment())
}

// Transcript godoc
// @Summary Student transcript
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/transcripts/{id} [get]
func (h *ReportHandler) Transcript(c *gin.Context) {
	transcript, err := h.reports.Transcript(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript)
}
