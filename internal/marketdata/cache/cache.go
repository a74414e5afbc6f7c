package cache

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"earnscope/pkg/logger"
)

// Store is a durable, TTL-bounded price cache backed by a single JSON
// file keyed by uppercase symbol. The whole document is read and
// rewritten on every call; one mutex guards the full read-modify-write
// cycle. This is safe for concurrent use within one process only:
// writers in different processes can race and silently lose updates.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *logger.Logger
}

// entry is the persisted form of one cached price.
type entry struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"ts"`
}

// New creates a price cache backed by the file at path. The file is
// created lazily on the first Set.
func New(path string, log *logger.Logger) *Store {
	return &Store{path: path, logger: log}
}

// Get returns the cached price for symbol if an entry exists and is no
// older than ttl. A missing or stale entry, and any failure to read
// the backing file, all degrade to a miss.
func (s *Store) Get(symbol string, ttl time.Duration) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()

	e, ok := entries[normalize(symbol)]
	if !ok {
		return 0, false
	}

	age := time.Now().Unix() - e.Timestamp
	if age > int64(ttl.Seconds()) {
		return 0, false
	}

	return e.Price, true
}

// Set overwrites the entry for symbol with the current timestamp.
// Write failures are logged and dropped; callers never see them.
func (s *Store) Set(symbol string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	entries[normalize(symbol)] = entry{
		Price:     price,
		Timestamp: time.Now().Unix(),
	}

	if err := s.save(entries); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to persist price cache update")
	}
}

// load reads the whole backing file. Read or decode failures return an
// empty map so cache trouble never becomes a caller-visible error.
func (s *Store) load() map[string]entry {
	entries := make(map[string]entry)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).Debug("Failed to read price cache file")
		}
		return entries
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.WithError(err).Warn("Corrupt price cache file, starting empty")
		return make(map[string]entry)
	}

	return entries
}

// save rewrites the whole backing file.
func (s *Store) save(entries map[string]entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
