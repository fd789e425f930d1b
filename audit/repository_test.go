// audit/repository_test.go
package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	logger "github.com/revguard/api/logging"
)

func newRepository(t *testing.T) (*GormRepository, *gorm.DB) {
	t.Helper()
	logger.InitTestLogger()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))
	return NewGormRepository(gdb), gdb
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, clampLimit(0))
	assert.Equal(t, DefaultPageSize, clampLimit(-10))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, MaxPageSize, clampLimit(MaxPageSize))
	assert.Equal(t, MaxPageSize, clampLimit(500))
}

func TestListFiltersAndOrder(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	actor := uuid.New()
	older := &Log{
		Timestamp:   time.Now().UTC().Add(-time.Hour),
		UserID:      &actor,
		ActionType:  ActionLogin,
		Status:      StatusSuccess,
		Description: "User ops@example.com logged in successfully",
	}
	newer := &Log{
		Timestamp:   time.Now().UTC(),
		ActionType:  ActionLoginFailed,
		Status:      StatusFailure,
		Description: "Failed login attempt for intruder@example.com",
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	entries, total, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionLoginFailed, entries[0].ActionType) // newest first

	entries, total, err = repo.List(ctx, Filter{UserID: &actor})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionLogin, entries[0].ActionType)

	entries, _, err = repo.List(ctx, Filter{Search: "intruder"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailure, entries[0].Status)

	entries, _, err = repo.List(ctx, Filter{Status: StatusSuccess})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionLogin, entries[0].ActionType)
}

func TestListErrorsSearchesStackTraces(t *testing.T) {
	repo, _ := newRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &Log{
		ActionType:  ActionExceptionRaised,
		Status:      StatusError,
		Severity:    SeverityCritical,
		ErrorType:   "runtime.boundsError",
		Description: "Unhandled panic",
		StackTrace:  "goroutine 1 [running]:\nmain.reconcile(0x0)",
	}))
	require.NoError(t, repo.Create(ctx, &Log{
		ActionType:  ActionLogin,
		Status:      StatusSuccess,
		Description: "User ops@example.com logged in successfully",
	}))

	// The error view only returns error entries.
	entries, total, err := repo.ListErrors(ctx, ErrorFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)

	// Search matches inside the stack trace, not just the description.
	entries, _, err = repo.ListErrors(ctx, ErrorFilter{Search: "main.reconcile"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SeverityCritical, entries[0].Severity)

	entries, _, err = repo.ListErrors(ctx, ErrorFilter{Search: "no-such-frame"})
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, _, err = repo.ListErrors(ctx, ErrorFilter{ErrorType: "boundsError"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
