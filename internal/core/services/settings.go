package services

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyChunkWindow      = "chunking.window"
	KeyChunkOverlap     = "chunking.overlap"
	KeyMaxKeywords      = "keywords.max"
	KeyMinTermLength    = "keywords.min_length"
	KeyStopwords        = "keywords.stopwords"
	KeyTopK             = "retrieval.top_k"
	KeySectionBoost     = "retrieval.section_boost"
	KeyCacheTTLSeconds  = "retrieval.cache_ttl_seconds"
	KeyInboxDir         = "ingest.inbox_dir"
	KeyDoneDir          = "ingest.done_dir"
	KeyPollIntervalSecs = "ingest.poll_interval_seconds"
	KeyWatch            = "ingest.watch"
	KeyVersionLabel     = "version.label"
)

type settingKind int

const (
	kindInt settingKind = iota
	kindFloat
	kindBool
	kindString
	kindList
)

// settingKinds lists every settable key and how its value is parsed.
var settingKinds = map[string]settingKind{
	KeyChunkWindow:      kindInt,
	KeyChunkOverlap:     kindInt,
	KeyMaxKeywords:      kindInt,
	KeyMinTermLength:    kindInt,
	KeyStopwords:        kindList,
	KeyTopK:             kindInt,
	KeySectionBoost:     kindFloat,
	KeyCacheTTLSeconds:  kindInt,
	KeyInboxDir:         kindString,
	KeyDoneDir:          kindString,
	KeyPollIntervalSecs: kindInt,
	KeyWatch:            kindBool,
	KeyVersionLabel:     kindString,
}

// SettingsService resolves application settings from the config store,
// falling back to defaults for anything unset.
type SettingsService struct {
	configStore driven.ConfigStore
	home        string
}

// NewSettingsService creates a settings service. Inbox and done directories
// default to subdirectories of home.
func NewSettingsService(configStore driven.ConfigStore, home string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		home:        home,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.Ingest.InboxDir = filepath.Join(s.home, "inbox")
	settings.Ingest.DoneDir = filepath.Join(s.home, "done")

	for _, key := range s.Keys() {
		if _, ok := s.configStore.Get(key); !ok {
			continue
		}
		assign(&settings, key, s.read(key))
	}

	return &settings, nil
}

// read fetches key from the store with the type its kind implies.
func (s *SettingsService) read(key string) any {
	v, _ := s.configStore.Get(key)
	return coerce(settingKinds[key], v)
}

// coerce converts a stored value to the Go type of kind, accepting any
// numeric width a backend decodes. Mismatched values become the zero value.
func coerce(kind settingKind, v any) any {
	switch kind {
	case kindInt:
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
		return 0
	case kindFloat:
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
		return 0.0
	case kindBool:
		b, _ := v.(bool)
		return b
	case kindList:
		switch l := v.(type) {
		case []string:
			return append([]string(nil), l...)
		case []any:
			out := make([]string, 0, len(l))
			for _, item := range l {
				if str, ok := item.(string); ok {
					out = append(out, str)
				}
			}
			return out
		}
		return []string(nil)
	default:
		str, _ := v.(string)
		return str
	}
}

// assign copies one typed value onto settings.
func assign(settings *domain.AppSettings, key string, v any) {
	switch key {
	case KeyChunkWindow:
		settings.Chunking.Window, _ = v.(int)
	case KeyChunkOverlap:
		settings.Chunking.Overlap, _ = v.(int)
	case KeyMaxKeywords:
		settings.Keywords.MaxKeywords, _ = v.(int)
	case KeyMinTermLength:
		settings.Keywords.MinTermLength, _ = v.(int)
	case KeyStopwords:
		settings.Keywords.Stopwords, _ = v.([]string)
	case KeyTopK:
		settings.Retrieval.TopK, _ = v.(int)
	case KeySectionBoost:
		settings.Retrieval.SectionBoost, _ = v.(float64)
	case KeyCacheTTLSeconds:
		secs, _ := v.(int)
		settings.Retrieval.CacheTTL = time.Duration(secs) * time.Second
	case KeyInboxDir:
		settings.Ingest.InboxDir, _ = v.(string)
	case KeyDoneDir:
		settings.Ingest.DoneDir, _ = v.(string)
	case KeyPollIntervalSecs:
		secs, _ := v.(int)
		settings.Ingest.PollInterval = time.Duration(secs) * time.Second
	case KeyWatch:
		settings.Ingest.Watch, _ = v.(bool)
	case KeyVersionLabel:
		settings.VersionLabel, _ = v.(string)
	}
}

// Set parses value for key, validates the resulting settings and persists it.
// Invalid combinations are rejected without touching the store.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	current, err := s.Get()
	if err != nil {
		return err
	}
	assign(current, key, parsed)
	if err := current.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists every settable key in sorted order.
func (s *SettingsService) Keys() []string {
	return []string{
		KeyChunkOverlap,
		KeyChunkWindow,
		KeyDoneDir,
		KeyInboxDir,
		KeyPollIntervalSecs,
		KeyWatch,
		KeyMaxKeywords,
		KeyMinTermLength,
		KeyStopwords,
		KeyCacheTTLSeconds,
		KeySectionBoost,
		KeyTopK,
		KeyVersionLabel,
	}
}

func parseSetting(kind settingKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindBool:
		return strconv.ParseBool(value)
	case kindList:
		items := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}
