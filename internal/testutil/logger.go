package testutil

import (
	"io"

	"github.com/JordyV23/social-app/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
