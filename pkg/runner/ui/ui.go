// Package ui provides the runner that opens the interactive dashboard.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/tui"
)

type UI struct {
	App *app.Service
	// LogFile receives log output while the screen is taken over. Logging is
	// dropped when empty.
	LogFile string
}

func (d *UI) Do(ctx context.Context) error {
	if d.App == nil {
		return errors.New("can not open ui, no service")
	}

	restore := log.Logger
	defer func() { log.Logger = restore }()

	if d.LogFile != "" {
		f, err := os.OpenFile(d.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.Nop()
	}

	return tui.Run(ctx, d.App)
}
