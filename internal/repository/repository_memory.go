package storefront_repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// -------------------------------------------------------------------
// dtypes
// -------------------------------------------------------------------

// DataRepo_Memory
// volatile document store holding collections in insertion order,
// with a mutex for concurrency
type DataRepo_Memory struct {
	mu          sync.RWMutex
	collections map[string][]map[string]any
}

func NewMemory() *DataRepo_Memory {
	return &DataRepo_Memory{
		collections: make(map[string][]map[string]any),
	}
}

// -------------------------------------------------------------------

// -------------------------------------------------------------------
// handling requests
// -------------------------------------------------------------------

func (dr *DataRepo_Memory) Count_Documents(_ context.Context, collection string) (int64, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	return int64(len(dr.collections[collection])), nil
}

func (dr *DataRepo_Memory) Insert_Document(_ context.Context, collection string, doc map[string]any) (string, error) {
	dr.mu.Lock()
	defer dr.mu.Unlock()

	id := uuid.NewString()
	stamped := make(map[string]any, len(doc)+3)
	for k, v := range doc {
		stamped[k] = v
	}
	now := time.Now().UTC()
	stamped["_id"] = id
	stamped["created_at"] = now
	stamped["updated_at"] = now

	dr.collections[collection] = append(dr.collections[collection], stamped)
	return id, nil
}

func (dr *DataRepo_Memory) Find_Documents(_ context.Context, collection string) ([]map[string]any, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	stored := dr.collections[collection]
	docs := make([]map[string]any, 0, len(stored))
	for _, doc := range stored {
		copied := make(map[string]any, len(doc))
		for k, v := range doc {
			copied[k] = v
		}
		docs = append(docs, copied)
	}
	return docs, nil
}

func (dr *DataRepo_Memory) List_Collections(_ context.Context) ([]string, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	names := make([]string, 0, len(dr.collections))
	for name := range dr.collections {
		names = append(names, name)
	}
	return names, nil
}

func (dr *DataRepo_Memory) Ping(_ context.Context) error {
	return nil
}
