package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client Pinger
	Log    *zap.Logger
	now    func() time.Time
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client Pinger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Client: client,
		Log:    logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type healthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// Serve handles GET /health.
//
// Always 200:
//
//	{ "success":true, "message":"Server is running", "timestamp":"…", "database":"connected" }
//
// database is "disconnected" when the ping fails.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: h.now(),
		Database:  "connected",
	}

	if h.Client == nil {
		resp.Database = "disconnected"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
		defer cancel()
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Warn("health-check: mongo ping failed", zap.Error(err))
			resp.Database = "disconnected"
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
