package cache

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrStoreFull is returned by a Backend when the underlying storage cannot
// accept another entry.
var ErrStoreFull = errors.New("cache storage is full")

const DefaultTTL = 5 * time.Minute

type Entry struct {
	Key       string
	Data      []byte
	Timestamp time.Time
	TTL       time.Duration
}

func (e Entry) Expired(now time.Time) bool {
	return now.Sub(e.Timestamp) > e.TTL
}

// Backend is a persistent key-value store for cache entries. It may be
// capacity-bounded and reject writes with ErrStoreFull.
type Backend interface {
	Get(key string) (Entry, bool, error)
	Put(entry Entry) error
	Delete(key string) error
	Entries() ([]Entry, error)
}

// Store adds TTL semantics on top of a Backend. Expiry is evaluated lazily on
// read; the only sweeps are one at construction and one when a write hits a
// full backend. A cache write that cannot be recovered is dropped silently:
// caching is an optimization, never a correctness dependency.
type Store struct {
	backend    Backend
	defaultTTL time.Duration
	logger     log.FieldLogger
}

func NewStore(backend Backend, defaultTTL time.Duration, logger log.FieldLogger) *Store {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{backend: backend, defaultTTL: defaultTTL, logger: logger}
	s.SweepExpired()
	return s
}

// Get returns the cached data, deleting the entry first if its TTL elapsed.
func (s *Store) Get(key string) ([]byte, bool) {
	entry, ok, err := s.backend.Get(key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if entry.Expired(time.Now()) {
		if err := s.backend.Delete(key); err != nil {
			s.logger.WithError(err).WithField("key", key).Debug("expired cache delete failed")
		}
		return nil, false
	}
	return entry.Data, true
}

// Set overwrites unconditionally, stamping the current time. A ttl of zero or
// less means the store default.
func (s *Store) Set(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	entry := Entry{Key: key, Data: data, Timestamp: time.Now(), TTL: ttl}
	err := s.backend.Put(entry)
	if errors.Is(err, ErrStoreFull) {
		s.SweepExpired()
		err = s.backend.Put(entry)
	}
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("cache write dropped")
	}
}

func (s *Store) Invalidate(key string) {
	if err := s.backend.Delete(key); err != nil {
		s.logger.WithError(err).WithField("key", key).Debug("cache invalidate failed")
	}
}

// SweepExpired deletes every entry whose TTL has elapsed and reports how many
// entries were removed.
func (s *Store) SweepExpired() int {
	entries, err := s.backend.Entries()
	if err != nil {
		s.logger.WithError(err).Debug("cache sweep failed")
		return 0
	}
	now := time.Now()
	removed := 0
	for _, entry := range entries {
		if !entry.Expired(now) {
			continue
		}
		if err := s.backend.Delete(entry.Key); err == nil {
			removed++
		}
	}
	return removed
}
