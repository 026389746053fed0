// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/orgadmin/internal/app/system/apperr"
	"github.com/dalemusser/orgadmin/internal/app/system/auditlog"
	"github.com/dalemusser/orgadmin/internal/app/system/credentials"
	"github.com/dalemusser/orgadmin/internal/app/system/formutil"
	"github.com/dalemusser/orgadmin/internal/app/system/inputval"
	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"github.com/dalemusser/orgadmin/internal/app/system/ratelimit"
	"github.com/dalemusser/orgadmin/internal/app/system/respond"
	"github.com/dalemusser/orgadmin/internal/app/system/timeouts"
	"github.com/dalemusser/orgadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgNoOrganization     = "Admin not associated with an organization"
	MsgTooManyAttempts    = "Too many login attempts, please try again later"
)

// AdminFinder is satisfied by *adminstore.Store.
type AdminFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// PasswordVerifier is satisfied by credentials.Hasher.
type PasswordVerifier interface {
	Verify(plain, digest string) bool
}

// TokenIssuer is satisfied by *credentials.Issuer.
type TokenIssuer interface {
	Issue(c credentials.Claims) (string, error)
}

type Handler struct {
	Admins   AdminFinder
	Hasher   PasswordVerifier
	Tokens   TokenIssuer
	Limiter  *ratelimit.LoginLimiter // nil disables rate limiting
	Respond  *respond.Responder
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(
	admins AdminFinder,
	hasher PasswordVerifier,
	tokens TokenIssuer,
	limiter *ratelimit.LoginLimiter,
	rs *respond.Responder,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Admins:   admins,
		Hasher:   hasher,
		Tokens:   tokens,
		Limiter:  limiter,
		Respond:  rs,
		AuditLog: audit,
		Log:      logger,
	}
}

type loginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

var loginMessages = inputval.Messages{
	"email.required":    "Email is required",
	"email.email":       "Invalid email format",
	"password.required": "Password is required",
}

type adminView struct {
	Email          string `json:"email"`
	OrganizationID string `json:"organizationId"`
}

type loginView struct {
	Token string    `json:"token"`
	Admin adminView `json:"admin"`
}

// HandleLogin exchanges an admin's email and password for a bearer token.
//
// Route: POST /admin/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := formutil.Decode(w, r, &in); err != nil {
		h.Respond.Fail(w, r, err)
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := inputval.Struct(in, loginMessages); err != nil {
		h.Respond.Fail(w, r, err)
		return
	}
	email := normalize.Email(in.Email)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.Limiter != nil && !h.Limiter.Check(r, email) {
		h.AuditLog.LoginFailedRateLimit(ctx, r, email)
		h.Respond.Fail(w, r, apperr.TooManyRequests(MsgTooManyAttempts))
		return
	}

	admin, err := h.Admins.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.Respond.Fail(w, r, apperr.Unauthorized(MsgInvalidCredentials))
		return
	}
	if err != nil {
		h.Respond.Fail(w, r, fmt.Errorf("load admin: %w", err))
		return
	}

	if !h.Hasher.Verify(in.Password, admin.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, admin.ID, admin.OrganizationID, email)
		h.Respond.Fail(w, r, apperr.Unauthorized(MsgInvalidCredentials))
		return
	}

	if admin.OrganizationID == nil {
		h.AuditLog.LoginFailedNoOrganization(ctx, r, admin.ID, email)
		h.Respond.Fail(w, r, apperr.Unauthorized(MsgNoOrganization))
		return
	}

	token, err := h.Tokens.Issue(credentials.Claims{
		AdminID:        admin.ID.Hex(),
		OrganizationID: admin.OrganizationID.Hex(),
		Email:          admin.Email,
	})
	if err != nil {
		h.Respond.Fail(w, r, err)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}
	h.AuditLog.LoginSuccess(ctx, r, admin.ID, *admin.OrganizationID, admin.Email)
	h.Log.Info("admin logged in", zap.String("admin_id", admin.ID.Hex()))

	respond.OK(w, http.StatusOK, "Login successful", loginView{
		Token: token,
		Admin: adminView{
			Email:          admin.Email,
			OrganizationID: admin.OrganizationID.Hex(),
		},
	})
}
