package handlers

import (
	"errors"
	"log"
	"net/http"

	"monkeybets/internal/services"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// Known failures and the wording the client shows for them. Anything not
// listed is a store or internal error and gets a generic 500.
var errorMappings = []errorMapping{
	{services.ErrPropNotFound, http.StatusNotFound, "We couldn't find that prop"},
	{services.ErrPropUnavailable, http.StatusGone, "This prop is no longer available"},
	{services.ErrNotCreator, http.StatusForbidden, "Only the creator of this prop can do that"},
	{services.ErrPropClosed, http.StatusConflict, "This prop is no longer accepting wagers"},
	{services.ErrAlreadyResolved, http.StatusConflict, "The result for this prop has already been set"},
	{services.ErrNotExpired, http.StatusConflict, "You can set the result once the prop has expired"},
	{services.ErrCreatorWager, http.StatusConflict, "You can't wager on your own prop"},
	{services.ErrDuplicateWager, http.StatusConflict, "You've already placed a wager on this prop"},
	{services.ErrCannotDelete, http.StatusConflict, "Resolved props can't be deleted"},
	{services.ErrWagerNotFound, http.StatusNotFound, "You haven't placed a wager on this prop"},
	{services.ErrDraftNotFound, http.StatusNotFound, "No pending wager"},
	{services.ErrPhoneTaken, http.StatusConflict, "Phone number already registered"},
	{services.ErrAccountNotFound, http.StatusNotFound, "Account not found. Please sign up first."},
	{services.ErrCodeRejected, http.StatusUnauthorized, "That code didn't work. Please check it and try again."},
	{services.ErrVerificationFailed, http.StatusBadGateway, "We couldn't verify your phone right now. Please try again."},
}

// respondError writes the JSON error for err. Validation errors name the
// offending field so the client can show the message next to it.
func respondError(c *gin.Context, component string, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError {
				log.Printf("[%s] %v", component, err)
			}
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}

	log.Printf("[%s] Unexpected error: %v", component, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}
