// Package store keeps kernelqa reports and dispatcher preferences in a
// badger database so profiling runs on one machine can be compared over
// time.
//
// Keys are laid out as
//
//	report/<arch>/<level>/<created-unix-nanos>/<run-id>  -> JSON report
//	pref/<arch>/<level>/<kernel>                         -> JSON preference
//
// so a prefix scan returns one host's reports oldest first.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/ajroetker/kernelqa/capability"
	"github.com/ajroetker/kernelqa/report"
)

var (
	// ErrNotFound is returned when a report or preference is missing.
	ErrNotFound = errors.New("kernelqa: not found in store")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kernelqa: store closed")
)

const (
	reportPrefix = "report/"
	prefPrefix   = "pref/"
)

// Store is a badger-backed report and preference store.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *badger.DB
	closed bool
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.db.Close()
}

// view and update hold the read lock for the whole transaction so Close
// waits for in-flight operations.
func (s *Store) view(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.View(fn)
}

func (s *Store) update(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.Update(fn)
}

func hostPrefix(prefix string, host capability.Snapshot) string {
	return prefix + host.Arch + "/" + host.Level.String() + "/"
}

func reportKey(r *report.Report) []byte {
	return fmt.Appendf(nil, "%s%020d/%s", hostPrefix(reportPrefix, r.Host), r.Created.UnixNano(), r.RunID)
}

func prefKey(host capability.Snapshot, kernel string) []byte {
	return []byte(hostPrefix(prefPrefix, host) + kernel)
}

// SaveReport stores r under its host and creation time.
func (s *Store) SaveReport(r *report.Report) error {
	val, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report %s: %w", r.RunID, err)
	}
	return s.update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(r), val)
	})
}

// Reports returns every stored report for host, oldest first.
func (s *Store) Reports(host capability.Snapshot) ([]*report.Report, error) {
	var out []*report.Report
	err := s.view(func(txn *badger.Txn) error {
		prefix := []byte(hostPrefix(reportPrefix, host))
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			r := new(report.Report)
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, r)
			}); err != nil {
				return fmt.Errorf("decoding %s: %w", it.Item().Key(), err)
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// Latest returns the most recent report for host.
func (s *Store) Latest(host capability.Snapshot) (*report.Report, error) {
	reports, err := s.Reports(host)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w: no reports for %s", ErrNotFound, host)
	}
	return reports[len(reports)-1], nil
}

// Report looks a report up by run ID across all hosts.
func (s *Store) Report(id uuid.UUID) (*report.Report, error) {
	suffix := "/" + id.String()
	var found *report.Report
	err := s.view(func(txn *badger.Txn) error {
		prefix := []byte(reportPrefix)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if !strings.HasSuffix(string(it.Item().Key()), suffix) {
				continue
			}
			found = new(report.Report)
			return it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, found)
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, id)
	}
	return found, nil
}

// SavePreferences records the preferred implementations for host. Existing
// entries for the same kernels are replaced.
func (s *Store) SavePreferences(host capability.Snapshot, prefs []report.Preference) error {
	return s.update(func(txn *badger.Txn) error {
		for _, p := range prefs {
			val, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := txn.Set(prefKey(host, p.Kernel), val); err != nil {
				return err
			}
		}
		return nil
	})
}

// Preference returns the stored preference for one kernel on host.
func (s *Store) Preference(host capability.Snapshot, kernel string) (report.Preference, error) {
	var p report.Preference
	err := s.view(func(txn *badger.Txn) error {
		item, err := txn.Get(prefKey(host, kernel))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: preference for %s on %s", ErrNotFound, kernel, host)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	return p, err
}

// Preferences returns every stored preference for host keyed by kernel.
func (s *Store) Preferences(host capability.Snapshot) (map[string]report.Preference, error) {
	prefs := make(map[string]report.Preference)
	err := s.view(func(txn *badger.Txn) error {
		prefix := []byte(hostPrefix(prefPrefix, host))
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var p report.Preference
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return err
			}
			prefs[p.Kernel] = p
		}
		return nil
	})
	return prefs, err
}
