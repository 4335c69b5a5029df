package handlers

import (
	"net/http"

	"monkeybets/internal/auth"
	"monkeybets/internal/models"
	"monkeybets/internal/services"

	"github.com/gin-gonic/gin"
)

var placeWagerMessages = bindMessages{
	"Prediction": {"*": "Please pick yes or no"},
	"Bananas": {
		"max": "You can wager at most 1000000000 bananas at once",
		"*":   "Please enter a whole number of bananas greater than zero",
	},
}

// WagerHandler handles wager endpoints
type WagerHandler struct {
	wagerService *services.WagerService
}

// NewWagerHandler creates a new WagerHandler
func NewWagerHandler(wagerService *services.WagerService) *WagerHandler {
	return &WagerHandler{wagerService: wagerService}
}

// PlaceWager stakes bananas on a prop
// POST /api/props/:id/wagers
func (h *WagerHandler) PlaceWager(c *gin.Context) {
	propID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	monkeyID, _ := auth.GetMonkeyID(c)

	var req models.PlaceWagerRequest
	if !bindJSON(c, &req, placeWagerMessages, "Please check your wager") {
		return
	}

	draftKey, _ := c.Cookie(DraftCookie)
	wager, err := h.wagerService.PlaceWager(c.Request.Context(), monkeyID, propID, req.Prediction, req.Bananas, draftKey)
	if err != nil {
		respondError(c, "WagerHandler", err)
		return
	}

	c.JSON(http.StatusCreated, wager)
}

// WagerDetail shows the monkey's wagers on a prop with potential payouts
// GET /api/props/:id/wager
func (h *WagerHandler) WagerDetail(c *gin.Context) {
	propID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	monkeyID, _ := auth.GetMonkeyID(c)

	view, err := h.wagerService.WagerDetail(c.Request.Context(), monkeyID, propID)
	if err != nil {
		respondError(c, "WagerHandler", err)
		return
	}

	c.JSON(http.StatusOK, view)
}
