package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"scanquote/collections"
	"scanquote/config"
	"scanquote/services"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError maps err onto an HTTP status: validation failures become 400
// with the per-field messages, a missing pricing config becomes 409, anything
// else is logged and becomes 500.
func respondError(e *core.RequestEvent, handler string, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return e.JSON(http.StatusBadRequest, errorResponse{Error: "invalid input", Fields: verr.Fields})
	}
	if errors.Is(err, collections.ErrNoActivePricingConfig) {
		return e.JSON(http.StatusConflict, errorResponse{Error: "No active pricing config"})
	}

	config.GetLogger().WithFields(logrus.Fields{
		"handler": handler,
		"path":    e.Request.URL.Path,
	}).WithError(err).Error("request failed")
	return e.JSON(http.StatusInternalServerError, errorResponse{Error: "Something went wrong. Please try again."})
}

func respondNotFound(e *core.RequestEvent, what string) error {
	return e.JSON(http.StatusNotFound, errorResponse{Error: what + " not found"})
}

func respondBadRequest(e *core.RequestEvent, msg string) error {
	return e.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
