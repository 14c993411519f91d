package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/taller-api/pkg/logger"
)

func TestNew_NivelConfigurable(t *testing.T) {
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "taller-mes"})
	assert.Equal(t, zerolog.WarnLevel, l.Zerolog().GetLevel())
}

func TestNew_NivelDesconocidoCaeEnInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, logger.New(logger.Config{Level: "bogus"}).Zerolog().GetLevel())
	assert.Equal(t, zerolog.InfoLevel, logger.New(logger.Config{}).Zerolog().GetLevel())
}
