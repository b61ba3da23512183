package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"kinship/internal/events"
	"kinship/internal/models"
	"kinship/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingBus collects released events in order.
type recordingBus struct {
	mu  sync.Mutex
	evs []models.DomainEvent
}

func (b *recordingBus) Release(_ context.Context, evs []models.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evs = append(b.evs, evs...)
}

func (b *recordingBus) Events() []models.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.DomainEvent(nil), b.evs...)
}

func newTestUnit(t *testing.T) (*gorm.DB, *events.UnitOfWork, *recordingBus) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	bus := &recordingBus{}
	return db, events.NewUnitOfWork(db, bus), bus
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeUnauthorized)
}

func assertInvalidState(t *testing.T, err error, message string) {
	t.Helper()
	assertCode(t, err, models.CodeInvalidState)
	var appErr *models.AppError
	errors.As(err, &appErr)
	assert.Equal(t, message, appErr.Message)
}

func count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
