package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.OK(rec, http.StatusCreated, "Organization created successfully", map[string]string{"k": "v"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "Organization created successfully" {
		t.Errorf("unexpected body: %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Error("success envelope must not carry an error")
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		name        string
		dev         bool
		err         error
		wantStatus  int
		wantError   string
		wantDetails bool
	}{
		{"conflict", false, apperr.Conflict("Email is already registered"), http.StatusConflict, "Email is already registered", false},
		{"not found", false, apperr.NotFound("Organization not found"), http.StatusNotFound, "Organization not found", false},
		{"unauthorized", false, apperr.Unauthorized("No token provided"), http.StatusUnauthorized, "No token provided", false},
		{
			"validation with details", false,
			apperr.Validation("Validation failed", apperr.FieldError{Field: "email", Message: "Please provide a valid email"}),
			http.StatusBadRequest, "Validation failed", true,
		},
		{"internal hidden", false, errors.New("socket closed"), http.StatusInternalServerError, "Internal server error", false},
		{"internal dev", true, errors.New("socket closed"), http.StatusInternalServerError, "Internal server error", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := respond.NewResponder(zap.NewNop(), tt.dev)
			rec := httptest.NewRecorder()
			rs.Fail(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode(t, rec)
			if body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
			_, hasDetails := body["details"]
			if hasDetails != tt.wantDetails {
				t.Errorf("details present = %v, want %v (%v)", hasDetails, tt.wantDetails, body)
			}
		})
	}
}
