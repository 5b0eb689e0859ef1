package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dkrasnov/fintrack-backend/internal/domain"
	"github.com/dkrasnov/fintrack-backend/internal/middleware"
	"github.com/dkrasnov/fintrack-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SummaryResponse wraps the monthly summary, preserving the nesting
// existing consumers rely on.
type SummaryResponse struct {
	Summary *domain.MonthlySummary `json:"summary"`
}

// GetMonthlySummary handles GET /api/v1/reports/summary?year=&month=
// Missing parameters default to the current month.
func (h *ReportHandler) GetMonthlySummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 1 {
			return NewValidationError(c, "Invalid year", nil)
		}
		year = parsed
	}
	if m := c.QueryParam("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			return NewValidationError(c, "Invalid month", nil)
		}
		month = parsed
	}

	summary, err := h.reportService.MonthlyReport(userID, year, month)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Int("year", year).Int("month", month).Msg("Failed to build monthly report")
		return NewInternalError(c, "Failed to build report")
	}

	return c.JSON(http.StatusOK, SummaryResponse{Summary: summary})
}
