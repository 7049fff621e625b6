package repository

import (
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunPostgres renders Postgres SQL without opening a connection
func dryRunPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=leadpipeline dbname=leadpipeline sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestForUpdate_LocksTheSelectedRow(t *testing.T) {
	db := dryRunPostgres(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var session domain.ChatSession
		return forUpdate(tx).First(&session, "id = ?", 42)
	})

	assert.Contains(t, sql, `FROM "chat_sessions"`)
	assert.Contains(t, sql, "FOR UPDATE")
}
