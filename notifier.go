package reqx

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, title string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, title string)

func (f NotifierFunc) Notify(ctx context.Context, title string) {
	f(ctx, title)
}

// LogNotifier writes notifications to a zerolog logger. It is the
// default notifier of a Client.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier returns a notifier writing to log.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, title string) {
	n.log.Info().Str("title", title).Msg("Notification")
}
