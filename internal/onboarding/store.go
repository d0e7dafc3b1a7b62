package onboarding

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// DraftStore is the per-user key/value persistence for onboarding drafts.
// Implementations hold raw JSON payloads; callers own the draft shape.
type DraftStore interface {
	// Load returns the stored payload for the key, or found=false when no
	// draft exists. Implementations must not treat a missing draft as an
	// error.
	Load(ctx context.Context, userID, key string) (payload []byte, found bool, err error)
	Save(ctx context.Context, userID, key string, payload []byte) error
	Clear(ctx context.Context, userID, key string) error
}

// loadDraft reads and decodes one draft into dst. It fails soft: a store
// error or a malformed payload is logged and reported as absent, so callers
// always fall back to an empty or seeded draft.
func loadDraft(ctx context.Context, store DraftStore, userID, key string, dst any) bool {
	payload, found, err := store.Load(ctx, userID, key)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("failed to load draft, treating as absent")
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("discarding malformed draft")
		return false
	}
	return true
}

func saveDraft(ctx context.Context, store DraftStore, userID, key string, draft any) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return store.Save(ctx, userID, key, payload)
}

// MemoryStore is an in-memory DraftStore used in tests and when the service
// runs without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, userID, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[userID][key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

func (s *MemoryStore) Save(_ context.Context, userID, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[userID] == nil {
		s.data[userID] = make(map[string][]byte)
	}
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.data[userID][key] = stored
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[userID], key)
	return nil
}
