package handlers

import (
	"net/http"

	"monkeybets/internal/models"
	"monkeybets/internal/services"

	"github.com/gin-gonic/gin"
)

// DraftCookie holds the key of a pending wager draft
const DraftCookie = "mb_draft"

var draftMessages = bindMessages{
	"PropID": {"*": "Unknown prop"},
	"Bananas": {
		"max": "You can wager at most 1000000000 bananas at once",
		"*":   "Please enter a whole number of bananas greater than zero",
	},
}

// DraftHandler keeps a pending wager across the sign-in redirect
type DraftHandler struct {
	draftService  *services.DraftService
	secureCookies bool
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(draftService *services.DraftService, secureCookies bool) *DraftHandler {
	return &DraftHandler{draftService: draftService, secureCookies: secureCookies}
}

// SaveDraft stores the pending wager
// PUT /api/drafts/wager
func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var req models.WagerDraft
	if !bindJSON(c, &req, draftMessages, "Please check your wager") {
		return
	}

	key, _ := c.Cookie(DraftCookie)
	key, err := h.draftService.Save(c.Request.Context(), key, req)
	if err != nil {
		respondError(c, "DraftHandler", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DraftCookie, key, int(h.draftService.TTL().Seconds()), "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, req)
}

// GetDraft returns the pending wager, if any
// GET /api/drafts/wager
func (h *DraftHandler) GetDraft(c *gin.Context) {
	key, _ := c.Cookie(DraftCookie)

	draft, err := h.draftService.Load(c.Request.Context(), key)
	if err != nil {
		respondError(c, "DraftHandler", err)
		return
	}

	c.JSON(http.StatusOK, draft)
}

// ClearDraft discards the pending wager
// DELETE /api/drafts/wager
func (h *DraftHandler) ClearDraft(c *gin.Context) {
	key, _ := c.Cookie(DraftCookie)

	if err := h.draftService.Clear(c.Request.Context(), key); err != nil {
		respondError(c, "DraftHandler", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DraftCookie, "", -1, "/", "", h.secureCookies, true)
	c.Status(http.StatusNoContent)
}
