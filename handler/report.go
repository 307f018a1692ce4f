package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naiseuue444/lawpal-ai-contracts-india/middleware"
	"github.com/naiseuue444/lawpal-ai-contracts-india/pkg/logger"
	"github.com/naiseuue444/lawpal-ai-contracts-india/service"
)

// ReportPublisher uploads rendered PDF bytes and returns the URL they are
// reachable at.
type ReportPublisher interface {
	PublishReport(ctx context.Context, contractID string, pdfBytes []byte) (string, error)
}

type ReportHandler struct {
	store     *service.Store
	renderer  *service.ReportService
	publisher ReportPublisher
}

func NewReportHandler(store *service.Store, renderer *service.ReportService, publisher ReportPublisher) *ReportHandler {
	return &ReportHandler{
		store:     store,
		renderer:  renderer,
		publisher: publisher,
	}
}

// Generate returns the PDF report URL for a contract. An existing report
// row is reused unless force=true; otherwise the report is rendered,
// published to object storage, and the row upserted. The reused URL may
// lag behind later clause corrections; force regenerates.
func (h *ReportHandler) Generate(c *gin.Context) {
	userID := middleware.GetUserID(c)
	contractID := c.Param("id")
	force := c.Query("force") == "true"

	ctx := logger.WithContract(c.Request.Context(), contractID)

	contract, err := h.store.GetContract(ctx, contractID)
	if err == gorm.ErrRecordNotFound || (err == nil && contract.UserID != userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(ctx, "failed to load contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract"})
		return
	}

	if !force {
		existing, err := h.store.GetReport(ctx, contractID)
		if err != nil {
			logger.Error(ctx, "failed to look up report", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up report"})
			return
		}
		if existing != nil && existing.PDFURL != "" {
			logger.Info(ctx, "reusing existing report", "generated_on", existing.GeneratedOn)
			c.JSON(http.StatusOK, gin.H{"success": true, "pdf_url": existing.PDFURL})
			return
		}
	}

	pdfBytes, err := h.renderer.Render(contract, contract.Clauses)
	if err != nil {
		logger.Error(ctx, "failed to render report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	url, err := h.publisher.PublishReport(ctx, contractID, pdfBytes)
	if err != nil {
		logger.Error(ctx, "failed to publish report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload report"})
		return
	}

	report, err := h.store.UpsertReport(ctx, contractID, url)
	if err != nil {
		logger.Error(ctx, "failed to save report reference", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report reference"})
		return
	}

	logger.Info(ctx, "report generated", "pdf_url", report.PDFURL, "bytes", len(pdfBytes))

	c.JSON(http.StatusOK, gin.H{"success": true, "pdf_url": report.PDFURL})
}
