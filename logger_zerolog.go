package wsbridge

import (
	"fmt"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the logger interface.
type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps the given zerolog.Logger so it can be injected
// into factories and bridges.
func NewZerologLogger(l zerolog.Logger) logger {
	return zerologLogger{l: l}
}

func noopLogger() logger {
	return zerologLogger{l: zerolog.Nop()}
}

func (z zerologLogger) WithField(key string, value any) logger {
	return zerologLogger{l: z.l.With().Interface(key, value).Logger()}
}

func (z zerologLogger) Debug(args ...any) {
	z.l.Debug().Msg(fmt.Sprint(args...))
}

func (z zerologLogger) Debugf(format string, args ...any) {
	z.l.Debug().Msgf(format, args...)
}

func (z zerologLogger) Debugln(args ...any) {
	z.l.Debug().Msg(fmt.Sprintln(args...))
}

func (z zerologLogger) Info(args ...any) {
	z.l.Info().Msg(fmt.Sprint(args...))
}

func (z zerologLogger) Infof(format string, args ...any) {
	z.l.Info().Msgf(format, args...)
}

func (z zerologLogger) Infoln(args ...any) {
	z.l.Info().Msg(fmt.Sprintln(args...))
}

func (z zerologLogger) Warn(args ...any) {
	z.l.Warn().Msg(fmt.Sprint(args...))
}

func (z zerologLogger) Warnf(format string, args ...any) {
	z.l.Warn().Msgf(format, args...)
}

func (z zerologLogger) Warnln(args ...any) {
	z.l.Warn().Msg(fmt.Sprintln(args...))
}

func (z zerologLogger) Error(args ...any) {
	z.l.Error().Msg(fmt.Sprint(args...))
}

func (z zerologLogger) Errorf(format string, args ...any) {
	z.l.Error().Msgf(format, args...)
}

func (z zerologLogger) Errorln(args ...any) {
	z.l.Error().Msg(fmt.Sprintln(args...))
}
