package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodegapos/backend/internal/audit"
	"github.com/bodegapos/backend/internal/repository/memory"
)

func TestRecord_DrainsToStoreOnClose(t *testing.T) {
	store := memory.New()
	logger := audit.New(store)

	logger.Record("user-1", audit.ActionSaleCompleted, "Venta con éxito por un total de $100 - ID: abc")
	logger.Record("", audit.ActionCashFlow, "OUT: $20 - caja chica")
	logger.Close()

	logs, err := store.ListSystemLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	byAction := map[string]bool{}
	for _, entry := range logs {
		byAction[entry.Action] = true
	}
	assert.True(t, byAction[audit.ActionSaleCompleted])
	assert.True(t, byAction[audit.ActionCashFlow])
}

func TestRecord_NilLoggerIsSafe(t *testing.T) {
	var logger *audit.Logger
	assert.NotPanics(t, func() {
		logger.Record("user-1", audit.ActionShiftOpened, "Inicio jornada con fondo de $100")
		logger.Close()
	})
}
