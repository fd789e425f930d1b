// audit/service.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/revguard/api/config"
	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/metrics"
	"github.com/revguard/api/model"
	"github.com/revguard/api/util"
)

// EventRecorded is published on the event bus for every durably written
// entry, feeding best-effort mirrors like the search indexer.
const EventRecorded = "audit.recorded"

// Service records audit events and serves the admin query surface.
//
// Recording is fail-swallowing by contract: a primary operation must never
// abort or roll back because the audit sink is unavailable. Persistence
// failures are logged and counted, and the Record call returns nil.
type Service interface {
	Record(ctx context.Context, entry Log) *Log
	RecordLogin(ctx context.Context, user *model.User, email string, r *http.Request, success bool)
	RecordLogout(ctx context.Context, user *model.User, r *http.Request)
	RecordError(ctx context.Context, cause error, description string, userID *uuid.UUID, r *http.Request, stack []byte)

	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	List(ctx context.Context, filter Filter) ([]Log, int64, error)
	ListErrors(ctx context.Context, filter ErrorFilter) ([]Log, int64, error)
}

type service struct {
	repo     Repository
	eventBus *util.EventBus
}

// NewService creates the audit recorder. The event bus is optional; when nil
// no mirror events are published.
func NewService(repo Repository, eventBus *util.EventBus) Service {
	return &service{repo: repo, eventBus: eventBus}
}

func (s *service) Record(ctx context.Context, entry Log) *Log {
	if entry.Status == "" {
		entry.Status = StatusSuccess
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		logger.Error("Failed to write audit entry",
			zap.Error(err),
			zap.String("actionType", string(entry.ActionType)),
			zap.String("status", string(entry.Status)))
		return nil
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, EventRecorded, entry)
	}
	return &entry
}

// RecordLogin writes a login or login_failed entry. Failed attempts carry no
// actor reference: the credential was never validated, so the attempted email
// lives only in the description.
func (s *service) RecordLogin(ctx context.Context, user *model.User, email string, r *http.Request, success bool) {
	entry := Log{
		ActionType:  ActionLogin,
		Status:      StatusSuccess,
		Description: fmt.Sprintf("User %s logged in successfully", email),
		IPAddress:   ClientIP(r),
		UserAgent:   r.UserAgent(),
	}
	if success && user != nil {
		entry.UserID = &user.ID
	} else {
		entry.ActionType = ActionLoginFailed
		entry.Status = StatusFailure
		entry.Description = fmt.Sprintf("Failed login attempt for %s", email)
	}
	s.Record(ctx, entry)
}

func (s *service) RecordLogout(ctx context.Context, user *model.User, r *http.Request) {
	s.Record(ctx, Log{
		UserID:      &user.ID,
		ActionType:  ActionLogout,
		Status:      StatusSuccess,
		Description: fmt.Sprintf("User %s logged out", user.Email),
		IPAddress:   ClientIP(r),
		UserAgent:   r.UserAgent(),
	})
}

// RecordError writes an error entry with severity classified from the cause
// and the captured stack attached.
func (s *service) RecordError(ctx context.Context, cause error, description string, userID *uuid.UUID, r *http.Request, stack []byte) {
	extra := map[string]interface{}{
		"error_message": cause.Error(),
	}
	entry := Log{
		UserID:      userID,
		ActionType:  ActionExceptionRaised,
		Status:      StatusError,
		Severity:    ClassifySeverity(cause),
		ErrorType:   fmt.Sprintf("%T", cause),
		StackTrace:  string(stack),
		Description: description,
	}
	if r != nil {
		entry.IPAddress = ClientIP(r)
		entry.UserAgent = r.UserAgent()
		extra["endpoint"] = r.URL.Path
		extra["method"] = r.Method
	}
	if data, err := json.Marshal(extra); err == nil {
		entry.ExtraData = datatypes.JSON(data)
	}
	s.Record(ctx, entry)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Log, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]Log, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListErrors(ctx context.Context, filter ErrorFilter) ([]Log, int64, error) {
	return s.repo.ListErrors(ctx, filter)
}

// ClassifySeverity grades an error for the audit trail. Runtime-class
// failures are critical, validation and type conversion failures are
// warnings, everything else is a plain error. A heuristic default, not a
// guarantee.
func ClassifySeverity(err error) Severity {
	if err == nil {
		return SeverityError
	}

	if _, ok := err.(runtime.Error); ok {
		return SeverityCritical
	}

	switch err.(type) {
	case validator.ValidationErrors, *json.UnmarshalTypeError, *json.SyntaxError, *strconv.NumError:
		return SeverityWarning
	}
	if err == gorm.ErrInvalidData || err == gorm.ErrInvalidValue {
		return SeverityWarning
	}

	return SeverityError
}

// ClientIP derives the client address, preferring proxy-reported headers over
// the socket peer. Only safe behind a trusted reverse proxy that overwrites
// these headers; deployments without one must disable trustProxyHeaders.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	if config.GetBool("server.trustProxyHeaders") {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return realIP
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
