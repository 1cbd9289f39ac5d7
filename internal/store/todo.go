package store

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/lidayx/lumina-sub000/pkg/feature"
)

// The TODO list shares the cache database under its own key prefix.

var _ feature.TodoStore = (*Store)(nil)

func todoKey(id string) []byte {
	return []byte("todo:" + id)
}

func (s *Store) ListTodos() ([]feature.TodoItem, error) {
	var out []feature.TodoItem
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("todo:")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var item feature.TodoItem
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
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (s *Store) AddTodo(text string) (feature.TodoItem, error) {
	item := feature.TodoItem{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UnixNano(),
	}
	data, err := json.Marshal(item)
	if err != nil {
		return feature.TodoItem{}, err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(todoKey(item.ID), data)
	})
	if err != nil {
		return feature.TodoItem{}, err
	}
	return item, nil
}

func (s *Store) CompleteTodo(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		ent, err := txn.Get(todoKey(id))
		if err != nil {
			return err
		}
		var item feature.TodoItem
		if err := ent.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		}); err != nil {
			return err
		}
		item.Done = true
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		return txn.Set(todoKey(id), data)
	})
}

func (s *Store) RemoveTodo(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(todoKey(id))
	})
}
