package db

import (
	"testing"

	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

func nopLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}
