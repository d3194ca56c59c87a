// Package env overlays environment variables on a ConfigStore, so secrets
// such as storage.dsn can stay out of config.toml.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docfuse/internal/core/ports/driven"
)

// DefaultPrefix is prepended to every variable name.
const DefaultPrefix = "DOCFUSE_"

// Ensure Store implements the interface.
var _ driven.ConfigStore = (*Store)(nil)

var varReplacer = strings.NewReplacer(".", "_", "-", "_")

// Store reads a key from the environment first and falls back to the
// wrapped store. Persistence and Keys go to the wrapped store only.
type Store struct {
	driven.ConfigStore
	prefix string
}

// NewStore wraps base. An empty prefix selects DefaultPrefix.
func NewStore(base driven.ConfigStore, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{ConfigStore: base, prefix: prefix}
}

// VarName returns the variable consulted for key:
// "storage.dsn" becomes DOCFUSE_STORAGE_DSN.
func (s *Store) VarName(key string) string {
	return s.prefix + strings.ToUpper(varReplacer.Replace(key))
}

func (s *Store) lookup(key string) (string, bool) {
	return os.LookupEnv(s.VarName(key))
}

// Get returns the raw variable value when set.
func (s *Store) Get(key string) (any, bool) {
	if v, ok := s.lookup(key); ok {
		return v, true
	}
	return s.ConfigStore.Get(key)
}

// GetString retrieves a string value.
func (s *Store) GetString(key string) string {
	if v, ok := s.lookup(key); ok {
		return v
	}
	return s.ConfigStore.GetString(key)
}

// GetInt parses the variable as a base-10 integer, 0 when malformed.
func (s *Store) GetInt(key string) int {
	if v, ok := s.lookup(key); ok {
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return s.ConfigStore.GetInt(key)
}

// GetFloat parses the variable as a float, 0 when malformed.
func (s *Store) GetFloat(key string) float64 {
	if v, ok := s.lookup(key); ok {
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	}
	return s.ConfigStore.GetFloat(key)
}

// GetBool accepts the forms strconv.ParseBool does; anything else is false.
func (s *Store) GetBool(key string) bool {
	if v, ok := s.lookup(key); ok {
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return s.ConfigStore.GetBool(key)
}

// GetStringSlice splits the variable on commas and drops empty items.
func (s *Store) GetStringSlice(key string) []string {
	v, ok := s.lookup(key)
	if !ok {
		return s.ConfigStore.GetStringSlice(key)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Set writes to the wrapped store but skips a value equal to the one the
// environment provides, so secrets read from the environment are not
// copied into the config file when settings are saved.
func (s *Store) Set(key string, value any) error {
	if v, ok := s.lookup(key); ok && envString(value) == v {
		return nil
	}
	return s.ConfigStore.Set(key, value)
}

func envString(value any) string {
	if items, ok := value.([]string); ok {
		return strings.Join(items, ",")
	}
	return fmt.Sprint(value)
}

// LoadDotEnv adds the KEY=value pairs in path to the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
