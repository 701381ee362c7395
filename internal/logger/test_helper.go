package logger

import (
	"io"

	"github.com/rs/zerolog"
)

func NewTest() *Logger {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	testLogger := zerolog.New(io.Discard).With().Timestamp().Logger()

	return &Logger{
		logger:   testLogger,
		language: "en-US",
		messages: getEmbeddedMessages("en-US"),
	}
}
