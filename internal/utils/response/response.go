package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/tubely-service/internal/apperr"
)

type Response struct {
	Status  string      `json:"status"`
	Kind    apperr.Kind `json:"kind,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(data)
}

// WriteError maps err to its HTTP status and writes the error envelope.
// Only the apperr message reaches the client; causes are logged. Bad requests
// caused by a failed validator rule also report the rule.
func WriteError(w http.ResponseWriter, err error) error {
	kind := apperr.KindOf(err)
	message := "internal server error"

	var e *apperr.Error
	if errors.As(err, &e) {
		message = e.Message
	}

	if kind == apperr.KindInternal {
		slog.Error("request failed", slog.String("error", err.Error()))
	}

	var verrs validator.ValidationErrors
	if kind == apperr.KindBadRequest && errors.As(err, &verrs) {
		return WriteJSON(w, apperr.HTTPStatus(kind), ValidationError(message, verrs))
	}

	return WriteJSON(w, apperr.HTTPStatus(kind), Response{
		Status: StatusError,
		Kind:   kind,
		Error:  message,
	})
}

// ValidationError lists the failed rules after message, e.g.
// "Invalid file type (oneof=image/png image/jpeg)".
func ValidationError(message string, errs validator.ValidationErrors) Response {
	rules := make([]string, 0, len(errs))
	for _, err := range errs {
		rule := err.Tag()
		if err.Param() != "" {
			rule += "=" + err.Param()
		}
		if err.Field() != "" {
			rule = err.Field() + ": " + rule
		}
		rules = append(rules, rule)
	}

	return Response{
		Status: StatusError,
		Kind:   apperr.KindBadRequest,
		Error:  message + " (" + strings.Join(rules, "; ") + ")",
	}
}
