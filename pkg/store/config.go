package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DefaultAPI     = "http://localhost:8000"
	DefaultPath    = "~/.dumpdash"
	DefaultTimeout = 30 * time.Second
)

// Config is the resolved client configuration.
type Config interface {
	BasePath() string
	APIURL() string
	UserID() string
	Timeout() time.Duration
	Verbose() bool
	// Source is the config file that was read, or "" when only defaults
	// and environment were used.
	Source() string
}

// LoadConfig reads .dumpdash.yaml and DUMPDASH_* environment variables.
func LoadConfig() (Config, error) {
	viper.SetDefault("api", DefaultAPI)
	viper.SetDefault("path", DefaultPath)
	viper.SetDefault("timeout", DefaultTimeout)
	viper.SetDefault("verbose", false)
	viper.SetConfigName(".dumpdash") // .yaml is implicit
	viper.SetEnvPrefix("DUMPDASH")
	viper.AutomaticEnv()

	if override := os.Getenv("DUMPDASH_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	s := &Settings{
		Path:  viper.GetString("path"),
		API:   viper.GetString("api"),
		User:  viper.GetString("user"),
		Wait:  viper.GetDuration("timeout"),
		Debug: viper.GetBool("verbose"),
		File:  viper.ConfigFileUsed(),
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	log.Debug().Str("config", s.File).Str("api", s.API).Str("path", s.Path).Msg("config loaded")
	return s, nil
}

// Settings is the plain Config implementation.
type Settings struct {
	Path  string        `json:"path"`
	API   string        `json:"api"`
	User  string        `json:"user,omitempty"`
	Wait  time.Duration `json:"timeout"`
	Debug bool          `json:"verbose"`
	File  string        `json:"config,omitempty"`
}

func (s *Settings) normalize() error {
	if s.Path == "" {
		s.Path = DefaultPath
	}
	path, err := homedir.Expand(s.Path)
	if err != nil {
		return fmt.Errorf("expand store path %q: %w", s.Path, err)
	}
	s.Path = path
	s.API = strings.TrimRight(strings.TrimSpace(s.API), "/")
	if s.API == "" {
		s.API = DefaultAPI
	}
	if s.Wait <= 0 {
		s.Wait = DefaultTimeout
	}
	return nil
}

func (s *Settings) BasePath() string       { return s.Path }
func (s *Settings) APIURL() string         { return s.API }
func (s *Settings) UserID() string         { return s.User }
func (s *Settings) Timeout() time.Duration { return s.Wait }
func (s *Settings) Verbose() bool          { return s.Debug }
func (s *Settings) Source() string         { return s.File }
