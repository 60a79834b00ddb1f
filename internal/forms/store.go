package forms

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chhitz007/nexora-page/internal/clock"
	pfirestore "github.com/chhitz007/nexora-page/internal/firestore"
)

// Store inserts one document per submission and returns its id. Implementations stamp
// the creation time server side.
type Store interface {
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// Record is a stored submission held by MemoryStore.
type Record struct {
	Collection string
	ID         string
	Fields     map[string]any
	CreatedAt  time.Time
}

// MemoryStore keeps submissions in process. It backs local development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	records []Record
	failErr error
}

// NewMemoryStore returns an empty store stamping records with c (the real clock when nil).
func NewMemoryStore(c clock.Clock) *MemoryStore {
	if c == nil {
		c = clock.Real()
	}
	return &MemoryStore{clock: c}
}

// FailWith makes subsequent inserts return err. Pass nil to recover.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", s.failErr
	}
	id := ulid.Make().String()
	copied := maps.Clone(fields)
	now := s.clock.Now().UTC()
	copied[pfirestore.CreatedAtField] = now
	s.records = append(s.records, Record{Collection: collection, ID: id, Fields: copied, CreatedAt: now})
	return id, nil
}

// Records returns the submissions stored in collection, oldest first.
func (s *MemoryStore) Records(collection string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.Collection == collection {
			r.Fields = maps.Clone(r.Fields)
			out = append(out, r)
		}
	}
	return out
}

// Len is the total number of stored submissions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FirestoreStore writes each submission as a new document in its form's collection.
type FirestoreStore struct {
	provider *pfirestore.Provider
}

func NewFirestoreStore(provider *pfirestore.Provider) (*FirestoreStore, error) {
	if provider == nil {
		return nil, errors.New("forms: firestore provider is required")
	}
	return &FirestoreStore{provider: provider}, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	return pfirestore.NewCollection(s.provider, collection).Add(ctx, fields)
}
