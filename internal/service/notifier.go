package service

import (
	"context"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogNotifier reports notices through zerolog. It has nobody to ask, so
// Confirm answers with the configured default.
type LogNotifier struct {
	logger      zerolog.Logger
	autoConfirm bool
}

func NewLogNotifier(logger zerolog.Logger, autoConfirm bool) *LogNotifier {
	return &LogNotifier{logger: logger, autoConfirm: autoConfirm}
}

func (n *LogNotifier) Confirm(ctx context.Context, prompt string) bool {
	n.logger.Info().Str("prompt", prompt).Bool("answer", n.autoConfirm).Msg("confirmation requested")
	return n.autoConfirm
}

func (n *LogNotifier) Notify(ctx context.Context, message string, kind domain.NoticeKind) {
	var ev *zerolog.Event
	switch kind {
	case domain.NoticeError:
		ev = n.logger.Error()
	case domain.NoticeWarning:
		ev = n.logger.Warn()
	default:
		ev = n.logger.Info()
	}
	ev.Str("kind", string(kind)).Msg(message)
}

func defaultNotifier() domain.Notifier {
	return NewLogNotifier(log.Logger, false)
}

var _ domain.Notifier = (*LogNotifier)(nil)
