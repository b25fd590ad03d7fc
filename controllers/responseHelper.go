package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/abanoubmamdouhhanna/cfc/apperr"
	middleware "github.com/abanoubmamdouhhanna/cfc/middlewares"
	"github.com/go-playground/validator"
)

var validate = validator.New()

// middlewareUser pulls the authenticated caller out of the request context.
func middlewareUser(r *http.Request) (email, firstName, lastName, uid string) {
	return middleware.GetUserFromContext(r)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError translates an application error into the response body.
// Internal causes are logged, never surfaced.
func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": apperr.Message(err),
	})
}
