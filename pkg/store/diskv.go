package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/dump"
)

const sessionKey = "auth-session"

// Persistence is the local state kept between runs: the login session and
// which dashboard buckets are expanded.
type Persistence interface {
	Session() (*dump.Session, error)
	SaveSession(s dump.Session) error
	ClearSession() error
	Expanded(b bucket.Bucket) bool
	SetExpanded(b bucket.Bucket, expanded bool) error
	Keys(ctx context.Context) []string
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, fmt.Errorf("store: base path required")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      64 * 1024,
		PathPerm:          0o700,
		FilePerm:          0o600,
	})}, nil
}

type persistence struct {
	d *diskv.Diskv
}

// Session returns the stored session, or nil when logged out.
func (p *persistence) Session() (*dump.Session, error) {
	if !p.d.Has(sessionKey) {
		return nil, nil
	}
	val, err := p.d.Read(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("store: read session: %w", err)
	}
	s := dump.Session{}
	if err := json.Unmarshal(val, &s); err != nil {
		log.Warn().Err(err).Msg("store: discarding unreadable session")
		return nil, nil
	}
	return &s, nil
}

func (p *persistence) SaveSession(s dump.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := p.d.Write(sessionKey, data); err != nil {
		return fmt.Errorf("store: write session: %w", err)
	}
	return nil
}

func (p *persistence) ClearSession() error {
	if !p.d.Has(sessionKey) {
		return nil
	}
	return p.d.Erase(sessionKey)
}

// Expanded reports whether a bucket section is open. Buckets start expanded.
func (p *persistence) Expanded(b bucket.Bucket) bool {
	key := b.Key()
	if !p.d.Has(key) {
		return true
	}
	val, err := p.d.Read(key)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("store: read bucket flag")
		return true
	}
	expanded, err := strconv.ParseBool(strings.TrimSpace(string(val)))
	if err != nil {
		return true
	}
	return expanded
}

func (p *persistence) SetExpanded(b bucket.Bucket, expanded bool) error {
	return p.d.Write(b.Key(), []byte(strconv.FormatBool(expanded)))
}

// Keys lists every stored key, sorted.
func (p *persistence) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// keyToPathTransform maps `group-name` keys to `group/name` on disk.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}
