package catalog_test

import (
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/donaldgifford/device-compare/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *slog.Logger {
	return logger.Discard()
}
