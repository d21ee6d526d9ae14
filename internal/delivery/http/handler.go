package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/glowadvisor/backend/internal/domain"
	"github.com/glowadvisor/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog   *usecase.CatalogService
	selection *usecase.SelectionStore
	chat      *usecase.ChatService
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler. chat may be nil, in which case the
// chat endpoints answer 501.
func NewHandler(
	catalog *usecase.CatalogService,
	selection *usecase.SelectionStore,
	chat *usecase.ChatService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		catalog:   catalog,
		selection: selection,
		chat:      chat,
		logger:    logger.With("component", "http"),
	}
}

// ToggleRequest addresses a catalog product by identity
type ToggleRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Brand string `json:"brand" form:"brand"`
}

// ChatRequest is the body of POST /api/v1/chat
type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

// ChatResponse carries the entry appended for a chat or routine request
type ChatResponse struct {
	Reply      domain.ChatMessage   `json:"reply"`
	Transcript []domain.ChatMessage `json:"transcript"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "glowadvisor-backend",
		"version": "1.0.0",
	})
}

// ListProducts returns the product grid for ?category=
func (h *Handler) ListProducts(c *gin.Context) {
	view, err := h.catalog.View(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListCategories returns the distinct categories in catalog order
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetSelection returns the selection panel
func (h *Handler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, usecase.BuildSelectionView(h.selection.Items()))
}

// ToggleSelection adds or removes the named catalog product
func (h *Handler) ToggleSelection(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: product name is required",
		})
		return
	}

	product, selected, err := h.catalog.Toggle(c.Request.Context(), domain.ProductKey{Name: req.Name, Brand: req.Brand})
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.catalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":   product,
		"selected":  selected,
		"selection": usecase.BuildSelectionView(h.selection.Items()),
	})
}

// ClearSelection empties the selection
func (h *Handler) ClearSelection(c *gin.Context) {
	h.selection.Clear(c.Request.Context())
	c.JSON(http.StatusOK, usecase.BuildSelectionView(h.selection.Items()))
}

// RemoveSelectionAt removes the selection row at :index
func (h *Handler) RemoveSelectionAt(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}

	removed, err := h.selection.RemoveAt(c.Request.Context(), index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"removed":   removed,
		"selection": usecase.BuildSelectionView(h.selection.Items()),
	})
}

// SendChat forwards a free-form question to the advisor
func (h *Handler) SendChat(c *gin.Context) {
	if h.chat == nil {
		h.chatNotConfigured(c)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.chat.SendMessage(c.Request.Context(), req.Message)
	h.chatResult(c, reply, err)
}

// GenerateRoutine asks for a routine built from the current selection
func (h *Handler) GenerateRoutine(c *gin.Context) {
	if h.chat == nil {
		h.chatNotConfigured(c)
		return
	}

	reply, err := h.chat.GenerateRoutine(c.Request.Context())
	h.chatResult(c, reply, err)
}

// GetTranscript returns the conversation so far
func (h *Handler) GetTranscript(c *gin.Context) {
	if h.chat == nil {
		h.chatNotConfigured(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": h.chat.Transcript()})
}

// ClearTranscript resets the conversation
func (h *Handler) ClearTranscript(c *gin.Context) {
	if h.chat == nil {
		h.chatNotConfigured(c)
		return
	}
	h.chat.ResetTranscript()
	c.JSON(http.StatusOK, gin.H{"transcript": h.chat.Transcript()})
}

func (h *Handler) chatResult(c *gin.Context, reply domain.ChatMessage, err error) {
	status := chatStatus(err)
	if status == http.StatusBadRequest || status == http.StatusConflict {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, ChatResponse{Reply: reply, Transcript: h.chat.Transcript()})
}

// chatStatus maps chat flow errors onto HTTP statuses
func chatStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoSelection):
		return http.StatusUnprocessableEntity
	default:
		// upstream API errors and transport failures
		return http.StatusBadGateway
	}
}

func (h *Handler) catalogError(c *gin.Context, err error) {
	h.logger.Error("catalog unavailable", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "Product catalog could not be loaded",
	})
}

func (h *Handler) chatNotConfigured(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error": "Chat service not configured",
	})
}
