package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger routes GORM's SQL logging through zerolog.
type gormLogger struct {
	zl            zerolog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(zl zerolog.Logger, slowThreshold time.Duration) logger.Interface {
	return &gormLogger{
		zl:            zl.With().Str("component", "gorm").Logger(),
		level:         logger.Warn,
		slowThreshold: slowThreshold,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.zl.Info().Msgf(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.zl.Warn().Msgf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.zl.Error().Msgf(msg, args...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.zl.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.zl.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		l.zl.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
