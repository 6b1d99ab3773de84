// internal/app/store/docstore/memory.go
package docstore

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Memory is an in-process Store used by tests. Documents round-trip
// through bson so struct tags behave exactly as they do against Mongo,
// and every read returns an independent copy.
type Memory struct {
	mu    sync.Mutex
	colls map[string]map[string]bson.Raw
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{colls: make(map[string]map[string]bson.Raw)}
}

func (m *Memory) Get(ctx context.Context, collection, id string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.colls[collection][id]
	if !ok {
		return ErrNotFound
	}
	return bson.Unmarshal(raw, out)
}

func (m *Memory) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.colls[collection] == nil {
		m.colls[collection] = make(map[string]bson.Raw)
	}
	m.colls[collection][id] = raw
	return nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.colls[collection][id]
	if !ok {
		return ErrNotFound
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	m.colls[collection][id] = merged
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.colls[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.colls[collection], id)
	return nil
}

// ListAll decodes all documents in ID order into out, which must be a
// pointer to a slice of the document type.
func (m *Memory) ListAll(ctx context.Context, collection string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.colls[collection]))
	for id := range m.colls[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	slicev := reflect.ValueOf(out).Elem()
	elemType := slicev.Type().Elem()
	result := reflect.MakeSlice(slicev.Type(), 0, len(ids))
	for _, id := range ids {
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(m.colls[collection][id], elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}
	slicev.Set(result)
	return nil
}
