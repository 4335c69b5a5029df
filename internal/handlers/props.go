package handlers

import (
	"net/http"

	"monkeybets/internal/auth"
	"monkeybets/internal/models"
	"monkeybets/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var createPropMessages = bindMessages{
	"Name": {
		"required": "Please describe what you're betting on",
		"max":      "Prop must be 500 characters or fewer",
	},
	"ExpiryDate": {"*": "Please choose when betting closes"},
}

var setResultMessages = bindMessages{
	"Result": {"*": "Please choose yes or no"},
}

// PropHandler handles prop endpoints
type PropHandler struct {
	propService *services.PropService
}

// NewPropHandler creates a new PropHandler
func NewPropHandler(propService *services.PropService) *PropHandler {
	return &PropHandler{propService: propService}
}

// Dashboard lists the monkey's active props and wagers
// GET /api/dashboard
func (h *PropHandler) Dashboard(c *gin.Context) {
	monkeyID, _ := auth.GetMonkeyID(c)

	view, err := h.propService.Dashboard(c.Request.Context(), monkeyID)
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// History lists every prop the monkey created
// GET /api/props
func (h *PropHandler) History(c *gin.Context) {
	monkeyID, _ := auth.GetMonkeyID(c)

	props, err := h.propService.History(c.Request.Context(), monkeyID)
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"props": props})
}

// CreateProp creates a new prop
// POST /api/props
func (h *PropHandler) CreateProp(c *gin.Context) {
	monkeyID, _ := auth.GetMonkeyID(c)

	var req models.CreatePropRequest
	if !bindJSON(c, &req, createPropMessages, "Please check the prop details") {
		return
	}

	prop, err := h.propService.CreateProp(c.Request.Context(), monkeyID, req.Name, req.ExpiryDate)
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusCreated, prop)
}

// GetProp returns the prop detail view
// GET /api/props/:id
func (h *PropHandler) GetProp(c *gin.Context) {
	propID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	monkeyID, _ := auth.GetMonkeyID(c)

	view, err := h.propService.GetPropView(c.Request.Context(), monkeyID, propID)
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetShared returns the public prop view for a share code
// GET /api/shared/:code
func (h *PropHandler) GetShared(c *gin.Context) {
	viewerID := uuid.Nil
	if id, ok := auth.GetMonkeyID(c); ok {
		viewerID = id
	}

	view, err := h.propService.GetSharedProp(c.Request.Context(), viewerID, c.Param("code"))
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetResult resolves an expired prop
// POST /api/props/:id/result
func (h *PropHandler) SetResult(c *gin.Context) {
	propID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	monkeyID, _ := auth.GetMonkeyID(c)

	var req models.SetResultRequest
	if !bindJSON(c, &req, setResultMessages, "Please choose yes or no") {
		return
	}

	prop, err := h.propService.SetResult(c.Request.Context(), monkeyID, propID, *req.Result)
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, prop)
}

// DeleteProp soft-deletes a prop
// DELETE /api/props/:id
func (h *PropHandler) DeleteProp(c *gin.Context) {
	propID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	monkeyID, _ := auth.GetMonkeyID(c)

	if err := h.propService.DeleteProp(c.Request.Context(), monkeyID, propID); err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Prop deleted"})
}

// Share returns the public share link
// GET /api/props/:id/share
func (h *PropHandler) Share(c *gin.Context) {
	propID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	link, err := h.propService.ShareLink(c.Request.Context(), propID)
	if err != nil {
		respondError(c, "PropHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":  link,
		"code": services.EncodeShareCode(propID),
	})
}
