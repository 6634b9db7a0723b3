// Package testutil provides in-memory fakes for tests.
package testutil

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/smartkrishi/smart-krishi-api/database"
	"github.com/smartkrishi/smart-krishi-api/models"
)

// MemoryStore is an in-memory database.Repository. Documents are round-tripped
// through BSON on write, so reads see the same value types the driver returns.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.M

	// WriteErr, when set, fails every insert.
	WriteErr error
	// PingErr, when set, fails Ping and CollectionNames.
	PingErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]bson.M)}
}

var _ database.Repository = (*MemoryStore)(nil)

func (m *MemoryStore) Create(_ context.Context, collection string, doc any) (string, error) {
	if m.WriteErr != nil {
		return "", m.WriteErr
	}
	stored, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	oid, ok := stored["_id"].(primitive.ObjectID)
	if !ok {
		oid = primitive.NewObjectID()
		stored["_id"] = oid
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], stored)
	return oid.Hex(), nil
}

func (m *MemoryStore) CreateStamped(ctx context.Context, collection string, doc models.Stamper) (string, error) {
	if m.WriteErr != nil {
		return "", m.WriteErr
	}
	doc.Stamp(primitive.NewObjectID())
	return m.Create(ctx, collection, doc)
}

func (m *MemoryStore) Find(_ context.Context, collection string, filter bson.M, order bson.D) ([]bson.M, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []bson.M{}
	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			out = append(out, copyDoc(doc))
		}
	}
	if len(order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, key := range order {
				c := compare(out[i][key.Key], out[j][key.Key])
				if c == 0 {
					continue
				}
				if dir, _ := key.Value.(int); dir < 0 {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	return out, nil
}

func (m *MemoryStore) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, bool, error) {
	docs, err := m.Find(ctx, collection, filter, nil)
	if err != nil || len(docs) == 0 {
		return nil, false, err
	}
	return docs[0], true, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, collection, id string) (bson.M, bool, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return nil, false, err
	}
	return m.FindOne(ctx, collection, bson.M{"_id": oid})
}

func (m *MemoryStore) Ping(context.Context) error { return m.PingErr }

func (m *MemoryStore) CollectionNames(context.Context) ([]string, error) {
	if m.PingErr != nil {
		return nil, m.PingErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of documents stored in collection.
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

// Insert seeds a fixture document, bypassing WriteErr.
func (m *MemoryStore) Insert(collection string, doc bson.M) primitive.ObjectID {
	stored, err := toDocument(doc)
	if err != nil {
		panic(err)
	}
	oid, ok := stored["_id"].(primitive.ObjectID)
	if !ok {
		oid = primitive.NewObjectID()
		stored["_id"] = oid
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], stored)
	return oid
}

func toDocument(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return out, nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func compare(a, b any) int {
	switch av := a.(type) {
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return cmpOrdered(int64(av), int64(bv))
	case string:
		bv, _ := b.(string)
		return cmpOrdered(av, bv)
	case float64:
		bv, _ := b.(float64)
		return cmpOrdered(av, bv)
	case int32:
		bv, _ := b.(int32)
		return cmpOrdered(av, bv)
	case int64:
		bv, _ := b.(int64)
		return cmpOrdered(av, bv)
	}
	return 0
}

func cmpOrdered[T int64 | int32 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
