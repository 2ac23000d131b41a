package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/boost-ledger/internal/service"
	"github.com/d60-Lab/boost-ledger/pkg/database"
)

func TestSeedAccountsKeepsLedgerConsistent(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	ids, err := seedAccounts(db, 120)
	require.NoError(t, err)
	assert.Len(t, ids, 120)

	summary, err := service.NewAuditService(db).AuditAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, summary.Checked)
	assert.Empty(t, summary.Drifted)

	rep, err := service.NewAuditService(db).AuditAccount(context.Background(), ids[49])
	require.NoError(t, err)
	assert.Equal(t, int64(49), rep.LedgerBalance)
	assert.Equal(t, int64(49), rep.LedgerEarned)
}

func TestOpenBenchDBUsesScratchSQLite(t *testing.T) {
	t.Setenv("CACHEBENCH_DATABASE_URL", "")
	db, cleanup, err := openBenchDB()
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, "sqlite", db.Dialector.Name())
}
