package service

import (
	"path/filepath"
	"testing"

	"cardregistry/internal/config"
	"cardregistry/internal/database"
	"cardregistry/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func countRows(t *testing.T, db *gorm.DB) (students, cards int64) {
	t.Helper()
	require.NoError(t, db.Model(&model.Student{}).Count(&students).Error)
	require.NoError(t, db.Model(&model.Card{}).Count(&cards).Error)
	return students, cards
}
