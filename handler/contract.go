package handler

import (
	"encoding/base64"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/naiseuue444/lawpal-ai-contracts-india/middleware"
	"github.com/naiseuue444/lawpal-ai-contracts-india/model"
	"github.com/naiseuue444/lawpal-ai-contracts-india/pkg/logger"
	"github.com/naiseuue444/lawpal-ai-contracts-india/service"
)

// maxUploadSize caps uploads at 10 MiB.
const maxUploadSize = 10 << 20

type ContractHandler struct {
	store      *service.Store
	extractSvc *service.ExtractService
	analyzeSvc *service.AnalyzeService
}

func NewContractHandler(store *service.Store, extractSvc *service.ExtractService, analyzeSvc *service.AnalyzeService) *ContractHandler {
	return &ContractHandler{
		store:      store,
		extractSvc: extractSvc,
		analyzeSvc: analyzeSvc,
	}
}

// Upload handles a multipart contract file upload and runs the full
// analysis pipeline synchronously.
func (h *ContractHandler) Upload(c *gin.Context) {
	userID := middleware.GetUserID(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	// Validate file type - PDF and DOCX allowed
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and DOCX files are allowed"})
		return
	}

	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	if len(raw) > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	contract, err := h.store.CreateContract(c.Request.Context(), userID, header.Filename, int64(len(raw)))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to create contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	clientName := c.PostForm("client_name")
	clientNotes := c.PostForm("client_notes")

	h.runPipeline(c, contract, encoded, clientName, clientNotes)
}

// AnalyzeRequest is the JSON body for analyzing a pre-created contract.
// The file is base64, optionally with a data-URI prefix.
type AnalyzeRequest struct {
	ContractID  string `json:"contractId" binding:"required"`
	File        string `json:"file" binding:"required"`
	ClientName  string `json:"clientName"`
	ClientNotes string `json:"clientNotes"`
}

// Analyze runs the analysis pipeline for a contract row that already
// exists, taking the document as base64 in the request body.
func (h *ContractHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing contractId or file"})
		return
	}

	userID := middleware.GetUserID(c)
	contract, err := h.store.GetContract(c.Request.Context(), req.ContractID)
	if err == gorm.ErrRecordNotFound || (err == nil && contract.UserID != userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract"})
		return
	}

	h.runPipeline(c, contract, req.File, req.ClientName, req.ClientNotes)
}

// runPipeline executes extract -> prior-risk lookup -> analyze -> persist
// and writes the HTTP response. LLM failures degrade to fallback content
// and still produce a 200; persistence failures return 500 and leave the
// contract failed.
func (h *ContractHandler) runPipeline(c *gin.Context, contract *model.Contract, encodedFile, clientName, clientNotes string) {
	ctx := logger.WithContract(c.Request.Context(), contract.ID)

	if err := h.store.UpdateStatus(ctx, contract.ID, model.StatusAnalyzing); err != nil {
		logger.Error(ctx, "failed to set analyzing status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract status"})
		return
	}

	extraction := h.extractSvc.Extract(ctx, encodedFile)
	text := extraction.Value

	priorRisk, err := h.store.FindPriorRisk(ctx, text)
	if err != nil {
		// Lookup failure only loses the consistency seed, not the analysis.
		logger.Warn(ctx, "prior risk lookup failed", "error", err)
		priorRisk = ""
	}
	if priorRisk != "" {
		logger.Info(ctx, "reusing prior risk classification", "risk", priorRisk)
	}

	result := h.analyzeSvc.Analyze(ctx, text, clientName, clientNotes, priorRisk)
	analysis := result.Value

	if err := h.store.WriteAnalysisResult(ctx, contract.ID, &analysis, text); err != nil {
		logger.Error(ctx, "failed to persist analysis", "error", err)
		if stErr := h.store.UpdateStatus(ctx, contract.ID, model.StatusFailed); stErr != nil {
			logger.Error(ctx, "failed to mark contract failed", "error", stErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save analysis results"})
		return
	}

	logger.Info(ctx, "contract analysis completed",
		"risk", analysis.RiskScore,
		"clauses", len(analysis.Clauses),
		"degraded", extraction.Degraded || result.Degraded,
	)

	resp := gin.H{
		"success":     true,
		"contract_id": contract.ID,
		"analysis":    analysis,
	}
	if extraction.Degraded || result.Degraded {
		resp["degraded"] = true
		reasons := []string{}
		if extraction.Degraded {
			reasons = append(reasons, "extraction: "+extraction.Reason)
		}
		if result.Degraded {
			reasons = append(reasons, "analysis: "+result.Reason)
		}
		resp["degraded_reason"] = strings.Join(reasons, "; ")
	}
	c.JSON(http.StatusOK, resp)
}

// List returns all contracts for the current user
func (h *ContractHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	contracts, err := h.store.ListContracts(c.Request.Context(), userID)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list contracts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// Get returns a single contract with its clauses
func (h *ContractHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	contract, err := h.store.GetContract(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound || (err == nil && contract.UserID != userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// GetStatus returns the analysis status of a contract
func (h *ContractHandler) GetStatus(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id := c.Param("id")

	contract, err := h.store.GetContract(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound || (err == nil && contract.UserID != userID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to load contract", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     contract.ID,
		"status": contract.AnalysisStatus,
	})
}
