package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JaneshKapoor/nayraa/services"
)

// ReportHandler exposes ticket status lookups for submitted reports.
type ReportHandler struct {
	reports services.ReportStore
}

func NewReportHandler(reports services.ReportStore) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) GetByTicket(c *gin.Context) {
	report, err := h.reports.FindByTicket(c.Request.Context(), c.Param("ticketId"))
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
