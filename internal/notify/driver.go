package notify

import (
	"fmt"
	"log/slog"

	"github.com/garnizeh/offerdesk/internal/config"
)

// New builds the notifier selected by cfg.Driver. The http driver result
// should be closed by the caller on shutdown.
func New(cfg config.NotifierConfig, l *slog.Logger) (Notifier, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogNotifier(l), nil
	case "http":
		n, err := NewDefaultHTTPNotifier(cfg)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("notify: unknown driver %q", cfg.Driver)
	}
}
