// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/orgadmin/internal/app/store/audit"
	"github.com/dalemusser/orgadmin/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination modes.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login events.
	Auth string
	// Admin controls logging for organization create/update/delete.
	Admin string
}

// Uniform returns a Config that applies mode to every category.
func Uniform(mode string) Config {
	return Config{Auth: mode, Admin: mode}
}

// ValidMode reports whether mode is one of all, db, log or off.
func ValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// EventStore persists audit events. *audit.Store satisfies it.
type EventStore interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via EventStore) and structured logs (via zap).
type Logger struct {
	store  EventStore
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when no category writes to the db.
func New(store EventStore, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.AdminID != nil {
		fields = append(fields, zap.String("admin_id", event.AdminID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}
	if setting == ModeOff || setting == "" {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string) audit.Event {
	e := audit.Event{Category: category, EventType: eventType}
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, adminID, orgID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.AdminID = &adminID
	e.OrganizationID = &orgID
	e.Success = true
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a login attempt for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound)
	e.FailureReason = "user not found"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a login attempt with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, adminID primitive.ObjectID, orgID *primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword)
	e.AdminID = &adminID
	e.OrganizationID = orgID
	e.FailureReason = "invalid password"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedNoOrganization logs a correct login by an admin without an organization.
func (l *Logger) LoginFailedNoOrganization(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedNoOrganization)
	e.AdminID = &adminID
	e.FailureReason = "admin not associated with an organization"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedRateLimit logs a login attempt rejected by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedRateLimit)
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// --- Admin Events ---

// OrgCreated logs the provisioning of an organization.
func (l *Logger) OrgCreated(ctx context.Context, r *http.Request, orgID, adminID primitive.ObjectID, orgName, collectionName string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventOrgCreated)
	e.OrganizationID = &orgID
	e.AdminID = &adminID
	e.Success = true
	e.Details = map[string]string{
		"organization_name": orgName,
		"collection_name":   collectionName,
	}
	l.Log(ctx, e)
}

// OrgUpdated logs a change to an organization. changes maps field names to
// their new values; passwords are recorded as "changed".
func (l *Logger) OrgUpdated(ctx context.Context, r *http.Request, orgID, adminID primitive.ObjectID, changes map[string]string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventOrgUpdated)
	e.OrganizationID = &orgID
	e.AdminID = &adminID
	e.Success = true
	e.Details = changes
	l.Log(ctx, e)
}

// OrgDeleted logs the removal of an organization.
func (l *Logger) OrgDeleted(ctx context.Context, r *http.Request, orgID primitive.ObjectID, orgName, collectionName string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventOrgDeleted)
	e.OrganizationID = &orgID
	e.Success = true
	e.Details = map[string]string{
		"organization_name": orgName,
		"collection_name":   collectionName,
	}
	l.Log(ctx, e)
}
