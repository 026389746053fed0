package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/orgadmin/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestAdmin is the session a bearer token would carry.
type TestAdmin struct {
	ID             string
	OrganizationID string
	Email          string
}

// AdminSession returns a TestAdmin belonging to orgID.
func AdminSession(orgID primitive.ObjectID) TestAdmin {
	return TestAdmin{
		ID:             primitive.NewObjectID().Hex(),
		OrganizationID: orgID.Hex(),
		Email:          "admin@test.com",
	}
}

// WithAdmin adds a session to the request context for testing authenticated
// handlers. This bypasses the bearer middleware.
func WithAdmin(r *http.Request, a TestAdmin) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), &auth.Session{
		AdminID:        a.ID,
		OrganizationID: a.OrganizationID,
		Email:          a.Email,
	}))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader
	switch b := v.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		body = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Envelope decodes the JSON response envelope.
func (r *ResponseRecorder) Envelope(t *testing.T) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", r.Body.String(), err)
	}
	return env
}

// Envelope mirrors respond.Envelope with a loosely typed payload.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    map[string]any  `json:"data"`
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}
