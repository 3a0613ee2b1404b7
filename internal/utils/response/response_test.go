package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/tubely-service/internal/apperr"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantKind    apperr.Kind
		wantMessage string
	}{
		{"forbidden", apperr.Forbidden("not the owner", nil), http.StatusForbidden, apperr.KindForbidden, "not the owner"},
		{"cause hidden", apperr.Internal("couldn't write asset", errors.New("open /srv/x: denied")), http.StatusInternalServerError, apperr.KindInternal, "couldn't write asset"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperr.KindInternal, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var body Response
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body.Status != StatusError || body.Kind != tt.wantKind || body.Error != tt.wantMessage {
				t.Fatalf("Unexpected body: %+v", body)
			}
		})
	}
}

func TestWriteError_ValidationRule(t *testing.T) {
	verr := validator.New().Var("image/gif", "oneof=image/png image/jpeg")
	if verr == nil {
		t.Fatal("Expected a validation error")
	}

	rec := httptest.NewRecorder()
	WriteError(rec, apperr.BadRequest("Invalid file type", verr))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}

	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	want := "Invalid file type (oneof=image/png image/jpeg)"
	if body.Kind != apperr.KindBadRequest || body.Error != want {
		t.Fatalf("Expected %q, got %+v", want, body)
	}
}

func TestWriteError_ValidationHiddenOnInternal(t *testing.T) {
	verr := validator.New().Var("", "required")

	rec := httptest.NewRecorder()
	WriteError(rec, apperr.Internal("couldn't save", verr))

	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != "couldn't save" {
		t.Fatalf("Expected the bare message, got %q", body.Error)
	}
}
