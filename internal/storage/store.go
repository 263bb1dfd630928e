// Package storage persists the address registry in an append-only CSV file.
//
// A Store is not safe for concurrent use, and several stores (or processes)
// appending to the same file interleave unpredictably; callers get exactly
// one store per file on a single goroutine.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"ipregistry/internal/domain"

	"github.com/charmbracelet/log"
)

var (
	// ErrDuplicate reports an insert for an address that is already stored.
	ErrDuplicate = errors.New("address already exists")

	// ErrStorageLoad reports a backing file that could not be replayed.
	ErrStorageLoad = errors.New("storage load failed")
)

// Store indexes registry entries by the literal address text they were
// inserted under. The index only ever reflects records that made it to disk.
type Store struct {
	path    string
	entries map[string]*domain.Address
	order   []string
}

// Open loads the registry at path, creating an empty file when none exists.
// Lines are replayed in file order; a later line with the same literal
// address wins while keeping the original position. The file is closed
// again before Open returns.
func Open(path string) (*Store, error) {
	store := &Store{
		path:    path,
		entries: make(map[string]*domain.Address),
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (store *Store) load() error {
	file, err := os.OpenFile(store.path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStorageLoad, store.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStorageLoad, store.path, err)
	}

	for _, record := range records {
		address, note := record[0], record[1]
		entry, err := domain.NewAddress(address, note)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStorageLoad, store.path, err)
		}
		if _, exists := store.entries[address]; !exists {
			store.order = append(store.order, address)
		}
		store.entries[address] = entry
	}
	return nil
}

// Insert stores an address with its note. The record is appended to the
// backing file first and indexed only once the append succeeded. Inserting
// an address that is already present is a no-op reported as ErrDuplicate.
func (store *Store) Insert(address, note string) error {
	if _, exists := store.entries[address]; exists {
		log.Warn("skip insert, address already exists", "address", address)
		return fmt.Errorf("%w: %q", ErrDuplicate, address)
	}

	entry, err := domain.NewAddress(address, note)
	if err != nil {
		return err
	}

	if err := store.append(address, note); err != nil {
		log.Error("append to storage failed", "address", address, "error", err)
		return err
	}

	store.entries[address] = entry
	store.order = append(store.order, address)
	return nil
}

// append writes one fully quoted CSV record. encoding/csv only quotes
// fields that need it while the on-disk format quotes every field, so the
// record is assembled by hand and read back with encoding/csv.
func (store *Store) append(address, note string) error {
	file, err := os.OpenFile(store.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("storage: open %s for append: %w", store.path, err)
	}
	defer file.Close()

	line := quoteField(address) + "," + quoteField(note) + "\n"
	if _, err := file.WriteString(line); err != nil {
		return fmt.Errorf("storage: append to %s: %w", store.path, err)
	}
	return nil
}

func quoteField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Lookup returns the entry stored under the exact address text.
func (store *Store) Lookup(address string) (*domain.Address, bool) {
	entry, ok := store.entries[address]
	return entry, ok
}

// FindByCIDR returns every stored entry that falls inside the given block,
// in insertion order. The block itself is only parsed, never stored.
func (store *Store) FindByCIDR(cidr string) ([]*domain.Address, error) {
	block, err := domain.NewAddress(cidr, "")
	if err != nil {
		return nil, err
	}

	var matches []*domain.Address
	for _, key := range store.order {
		if entry := store.entries[key]; block.Contains(entry) {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

// FindByNote returns every entry whose note contains the given substring,
// in insertion order. The match is case-sensitive and the empty substring
// matches everything.
func (store *Store) FindByNote(substring string) []*domain.Address {
	var matches []*domain.Address
	for _, key := range store.order {
		entry := store.entries[key]
		if strings.Contains(entry.Note, substring) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Len reports the number of stored entries.
func (store *Store) Len() int {
	return len(store.entries)
}

// Path returns the backing file path.
func (store *Store) Path() string {
	return store.path
}
