// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shorturl-go/internal/config"
	"shorturl-go/internal/repository"
)

// NewTestDB opens a private, migrated in-memory SQLite database that lives
// until the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := config.DBConfig{
		Driver: "sqlite",
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}
	db, err := repository.InitDB(cfg, zap.NewNop(), zap.NewAtomicLevelAt(zap.ErrorLevel))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repository.Close(db)
	})
	return db
}
