package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"
)

// ItemType partitions the cache keyspace.
type ItemType string

const (
	TypeApp      ItemType = "app"
	TypeFile     ItemType = "file"
	TypeBookmark ItemType = "bookmark"
	TypeBrowser  ItemType = "browser"
	TypeCommand  ItemType = "command"
	TypeConfig   ItemType = "config"
)

// IndexedItem is the persisted shape for apps and bookmarks. ID is stable
// across re-index runs for the same underlying entity so usage stats survive
// re-scans.
type IndexedItem struct {
	ID             string   `json:"id"`
	Type           ItemType `json:"type"`
	Name           string   `json:"name"`
	Path           string   `json:"path"`
	Icon           string   `json:"icon,omitempty"`
	LaunchCount    int      `json:"launchCount"`
	LastUsed       int64    `json:"lastUsed,omitempty"` // unix millis, 0 = never
	Score          float64  `json:"score"`
	SearchKeywords string   `json:"searchKeywords,omitempty"`
}

// Store is a thin durable key-value cache over BadgerDB, keyed by id and
// queryable by type. In-memory state stays authoritative when a write fails;
// callers log and keep going.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

type zerologAdapter struct {
	logger zerolog.Logger
}

var _ badger.Logger = (*zerologAdapter)(nil)

func (z *zerologAdapter) Errorf(msg string, items ...any)   { z.logger.Error().Msgf(msg, items...) }
func (z *zerologAdapter) Warningf(msg string, items ...any) { z.logger.Warn().Msgf(msg, items...) }
func (z *zerologAdapter) Infof(msg string, items ...any)    { z.logger.Debug().Msgf(msg, items...) }
func (z *zerologAdapter) Debugf(msg string, items ...any)   { z.logger.Debug().Msgf(msg, items...) }

// Open opens (or creates) the cache database at dir.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = &zerologAdapter{logger: logger}
	opts.Compression = options.None
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// OpenInMemory opens a throwaway store, used by tests.
func OpenInMemory(logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &zerologAdapter{logger: logger}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func itemKey(t ItemType, id string) []byte {
	return []byte(fmt.Sprintf("item:%s:%s", t, id))
}

func typePrefix(t ItemType) []byte {
	return []byte(fmt.Sprintf("item:%s:", t))
}

// idKey maps an id back to its type so GetItemByID and DeleteItem work
// without the caller knowing the type.
func idKey(id string) []byte {
	return []byte("id:" + id)
}

// UpsertItem writes one item.
func (s *Store) UpsertItem(item IndexedItem) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return putItem(txn, item)
	})
}

// BatchUpsertItems writes many items through a write batch.
func (s *Store) BatchUpsertItems(items []IndexedItem) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if err := wb.Set(itemKey(item.Type, item.ID), data); err != nil {
			return err
		}
		if err := wb.Set(idKey(item.ID), []byte(item.Type)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func putItem(txn *badger.Txn, item IndexedItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	if err := txn.Set(itemKey(item.Type, item.ID), data); err != nil {
		return err
	}
	return txn.Set(idKey(item.ID), []byte(item.Type))
}

// GetAllItems returns every item of a type.
func (s *Store) GetAllItems(t ItemType) ([]IndexedItem, error) {
	var out []IndexedItem
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = typePrefix(t)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var item IndexedItem
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			})
			if err != nil {
				return err
			}
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

// GetItemByID looks up one item regardless of type.
func (s *Store) GetItemByID(id string) (*IndexedItem, error) {
	var item *IndexedItem
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := getByID(txn, id)
		if err != nil {
			return err
		}
		item = found
		return nil
	})
	return item, err
}

func getByID(txn *badger.Txn, id string) (*IndexedItem, error) {
	ent, err := txn.Get(idKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var t ItemType
	if err := ent.Value(func(val []byte) error {
		t = ItemType(val)
		return nil
	}); err != nil {
		return nil, err
	}
	rec, err := txn.Get(itemKey(t, id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var item IndexedItem
	if err := rec.Value(func(val []byte) error {
		return json.Unmarshal(val, &item)
	}); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes one item by id.
func (s *Store) DeleteItem(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := getByID(txn, id)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		if err := txn.Delete(itemKey(item.Type, id)); err != nil {
			return err
		}
		return txn.Delete(idKey(id))
	})
}

// ClearItemsByType drops every item of a type.
func (s *Store) ClearItemsByType(t ItemType) error {
	items, err := s.GetAllItems(t)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, item := range items {
			if err := txn.Delete(itemKey(t, item.ID)); err != nil {
				return err
			}
			if err := txn.Delete(idKey(item.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateItemUsage bumps launchCount and stamps lastUsed.
func (s *Store) UpdateItemUsage(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := getByID(txn, id)
		if err != nil {
			return err
		}
		if item == nil {
			return badger.ErrKeyNotFound
		}
		item.LaunchCount++
		item.LastUsed = time.Now().UnixMilli()
		return putItem(txn, *item)
	})
}

// ClearOldItems drops items of a type whose id is not in currentIDs,
// removing entries for entities that no longer exist after a re-scan.
func (s *Store) ClearOldItems(t ItemType, currentIDs []string) error {
	keep := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		keep[id] = true
	}
	items, err := s.GetAllItems(t)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, item := range items {
			if keep[item.ID] {
				continue
			}
			if err := txn.Delete(itemKey(t, item.ID)); err != nil {
				return err
			}
			if err := txn.Delete(idKey(item.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}
