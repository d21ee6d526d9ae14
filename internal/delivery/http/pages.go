package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/glowadvisor/backend/internal/domain"
	"github.com/glowadvisor/backend/internal/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// Flash codes carried across the post/redirect/get round trip. Only known
// codes are rendered so query text is never echoed into the page.
const (
	flashNotFound    = "not-found"
	flashCatalog     = "catalog"
	flashEmptyInput  = "empty-message"
	flashBusy        = "busy"
	flashUnavailable = "chat-unavailable"
)

var flashMessages = map[string]string{
	flashNotFound:    "That product is no longer in the catalog.",
	flashCatalog:     "Products could not be loaded. Please try again later.",
	flashEmptyInput:  "Please type a question first.",
	flashBusy:        "Still waiting on the previous answer.",
	flashUnavailable: "The advisor is not configured on this server.",
}

// loadTemplates parses the embedded page templates
func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type indexPage struct {
	Catalog    usecase.CatalogView
	Selection  usecase.SelectionView
	Transcript []domain.ChatMessage
	ChatReady  bool
	Error      string
	Flash      string
}

// Index renders the catalog grid, selection panel and transcript
func (h *Handler) Index(c *gin.Context) {
	page := indexPage{
		Selection: usecase.BuildSelectionView(h.selection.Items()),
		ChatReady: h.chat != nil,
		Flash:     flashMessages[c.Query("flash")],
	}
	if h.chat != nil {
		page.Transcript = h.chat.Transcript()
	}

	status := http.StatusOK
	view, err := h.catalog.View(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error("catalog unavailable", "error", err)
		status = http.StatusBadGateway
		page.Error = flashMessages[flashCatalog]
	}
	page.Catalog = view

	c.HTML(status, "index.html", page)
}

// ToggleForm flips the product posted by a catalog card
func (h *Handler) ToggleForm(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectHome(c, flashNotFound)
		return
	}

	_, _, err := h.catalog.Toggle(c.Request.Context(), domain.ProductKey{Name: req.Name, Brand: req.Brand})
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		h.redirectHome(c, flashNotFound)
	case err != nil:
		h.logger.Error("toggle failed", "error", err)
		h.redirectHome(c, flashCatalog)
	default:
		h.redirectHome(c, "")
	}
}

// RemoveForm drops the product posted by a selection row
func (h *Handler) RemoveForm(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectHome(c, flashNotFound)
		return
	}

	h.selection.Remove(c.Request.Context(), domain.ProductKey{Name: req.Name, Brand: req.Brand})
	h.redirectHome(c, "")
}

// ClearForm empties the selection
func (h *Handler) ClearForm(c *gin.Context) {
	h.selection.Clear(c.Request.Context())
	h.redirectHome(c, "")
}

// ChatForm sends the chat input. Failures are already in the transcript, so
// only input problems produce a flash.
func (h *Handler) ChatForm(c *gin.Context) {
	if h.chat == nil {
		h.redirectHome(c, flashUnavailable)
		return
	}

	_, err := h.chat.SendMessage(c.Request.Context(), c.PostForm("message"))
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		h.redirectHome(c, flashEmptyInput)
	case errors.Is(err, domain.ErrRequestInFlight):
		h.redirectHome(c, flashBusy)
	default:
		h.redirectHome(c, "")
	}
}

// RoutineForm generates a routine from the selection
func (h *Handler) RoutineForm(c *gin.Context) {
	if h.chat == nil {
		h.redirectHome(c, flashUnavailable)
		return
	}

	if _, err := h.chat.GenerateRoutine(c.Request.Context()); errors.Is(err, domain.ErrRequestInFlight) {
		h.redirectHome(c, flashBusy)
		return
	}
	h.redirectHome(c, "")
}

// ClearTranscriptForm resets the conversation
func (h *Handler) ClearTranscriptForm(c *gin.Context) {
	if h.chat != nil {
		h.chat.ResetTranscript()
	}
	h.redirectHome(c, "")
}

// redirectHome answers a form post with 303 back to the page, keeping the
// category the user was browsing
func (h *Handler) redirectHome(c *gin.Context, flash string) {
	q := url.Values{}
	if category := c.PostForm("category"); category != "" {
		q.Set("category", category)
	}
	if flash != "" {
		q.Set("flash", flash)
	}

	target := "/"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}
