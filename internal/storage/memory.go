package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/conorfennell/flashdrill/internal/domain"
	"github.com/conorfennell/flashdrill/internal/knol"
)

type progressKey struct {
	flashcardID int64
	username    string
}

// Memory is a Store that keeps everything in process memory.
// Nothing survives Close; it backs the "memory" driver and the tests.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	cards    []domain.Flashcard
	progress map[progressKey]domain.ProgressRecord
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		progress: make(map[progressKey]domain.ProgressRecord),
	}
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Create(_ context.Context, question, answer string) (*domain.Flashcard, error) {
	card, err := domain.NewFlashcard(question, answer)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	card.ID = m.nextID
	m.nextID++
	m.cards = append(m.cards, *card)
	return card, nil
}

func (m *Memory) List(_ context.Context) ([]domain.Flashcard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cards := make([]domain.Flashcard, len(m.cards))
	copy(cards, m.cards)
	return cards, nil
}

func (m *Memory) Get(_ context.Context, id int64) (*domain.Flashcard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOf(id); i >= 0 {
		c := m.cards[i]
		return &c, nil
	}
	return nil, CardNotFound(id)
}

func (m *Memory) FindByHash(_ context.Context, hash string) (*domain.Flashcard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.cards {
		if c.Hash == hash {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return CardNotFound(id)
	}
	m.cards = append(m.cards[:i], m.cards[i+1:]...)

	for key := range m.progress {
		if key.flashcardID == id {
			delete(m.progress, key)
		}
	}
	return nil
}

func (m *Memory) Exists(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cards) > 0, nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cards), nil
}

func (m *Memory) Upsert(_ context.Context, flashcardID int64, username string, status domain.Status) error {
	rec, err := domain.NewProgressRecord(flashcardID, username, status)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(flashcardID) < 0 {
		return CardNotFound(flashcardID)
	}
	m.progress[progressKey{flashcardID, rec.Username}] = *rec
	return nil
}

func (m *Memory) Find(_ context.Context, flashcardID int64, username string) (*domain.ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.progress[progressKey{flashcardID, knol.Username(username)}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) ListForUser(_ context.Context, username string) ([]domain.ProgressRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name := knol.Username(username)
	var records []domain.ProgressRecord
	for key, rec := range m.progress {
		if key.username == name {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].FlashcardID < records[j].FlashcardID
	})
	return records, nil
}

func (m *Memory) DeleteAllForUser(_ context.Context, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := knol.Username(username)
	var n int64
	for key := range m.progress {
		if key.username == name {
			delete(m.progress, key)
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountForUser(_ context.Context, username string, status domain.Status) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name := knol.Username(username)
	n := 0
	for key, rec := range m.progress {
		if key.username == name && rec.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *Memory) indexOf(id int64) int {
	for i, c := range m.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
