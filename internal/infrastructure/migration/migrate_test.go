package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMigrateLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := migrateLogger{zap.New(core)}

	assert.True(t, l.Verbose())
	l.Printf("Start buffering %d/u %s\n", 2, "ledger_transactions")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "Start buffering 2/u ledger_transactions", entries[0].Message)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	}

	quiet, _ := observer.New(zapcore.InfoLevel)
	assert.False(t, migrateLogger{zap.New(quiet)}.Verbose())
}
