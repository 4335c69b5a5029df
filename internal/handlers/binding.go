package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type bindMessages map[string]map[string]string

// bindJSON binds the body into req and writes a 400 with a friendly
// per-field message on failure.
func bindJSON(c *gin.Context, req any, messages bindMessages, fallback string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		field, message := resolveBindError(err, messages, fallback)
		body := gin.H{"error": message}
		if field != "" {
			body["field"] = field
		}
		c.JSON(http.StatusBadRequest, body)
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages, fallback string) (string, string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			field := jsonFieldName(verr.Field())
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return field, msg
				}
				if msg, ok := fieldMsgs["*"]; ok {
					return field, msg
				}
			}
			if fallback != "" {
				return field, fallback
			}
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if fieldMsgs, ok := messages[goFieldName(typeErr.Field)]; ok {
			if msg, ok := fieldMsgs["*"]; ok {
				return typeErr.Field, msg
			}
		}
		return typeErr.Field, fallbackOr(fallback)
	}

	return "", fallbackOr(fallback)
}

// paramUUID parses a UUID path parameter, answering 404 when it is malformed.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "We couldn't find that prop"})
		return uuid.Nil, false
	}
	return id, true
}

var jsonNames = map[string]string{
	"Name":       "name",
	"ExpiryDate": "expiry_date",
	"Prediction": "prediction",
	"Bananas":    "bananas",
	"Result":     "result",
	"Phone":      "phone",
	"Code":       "code",
	"PropID":     "prop_id",
}

func jsonFieldName(goName string) string {
	if name, ok := jsonNames[goName]; ok {
		return name
	}
	return goName
}

func goFieldName(jsonName string) string {
	for goName, name := range jsonNames {
		if name == jsonName {
			return goName
		}
	}
	return jsonName
}

func fallbackOr(fallback string) string {
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}
