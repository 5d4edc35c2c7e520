package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/api"
	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/commands/options"
	"tableflip.dev/dumpdash/pkg/runner/review"
	"tableflip.dev/dumpdash/pkg/store"
)

// session bundles what every command needs to talk to the backend.
type session struct {
	Config      store.Config
	Persistence store.Persistence
	Client      *api.Client
	App         *app.Service
}

func loadSession() (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Verbose() {
		setupLogging(true)
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	client, err := api.New(cfg.APIURL(),
		api.WithTimeout(cfg.Timeout()),
		api.WithSessionStore(p),
		api.WithUserID(cfg.UserID()),
		api.WithDebugLogging(verbose || cfg.Verbose()),
	)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("api", cfg.APIURL()).Str("path", cfg.BasePath()).Msg("session loaded")
	return &session{
		Config:      cfg,
		Persistence: p,
		Client:      client,
		App:         &app.Service{Backend: client, Persistence: p},
	}, nil
}

func loadService() (*app.Service, error) {
	s, err := loadSession()
	if err != nil {
		return nil, err
	}
	return s.App, nil
}

// explain adds a next step to errors the user can fix themselves.
func explain(err error) error {
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrNoUser) {
		return fmt.Errorf("%w (run `dumpdash login`)", err)
	}
	return err
}

// Reported is true for errors the command already printed, so callers
// only need to set the exit code.
func Reported(err error) bool {
	return errors.Is(err, review.ErrRolledBack) || errors.Is(err, options.ErrPrinted)
}
