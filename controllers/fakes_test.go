package controllers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Tharoon321/events-api/models"
	"github.com/Tharoon321/events-api/store"
)

// memStore is an in-memory EventStore/TeamStore.
type memStore struct {
	mu      sync.Mutex
	teams   map[string]models.Team
	events  []models.Event
	upserts []string

	upsertDelay time.Duration
	upsertsDone atomic.Int32
	doneAtWrite int32

	upsertErr error
	insertErr error
	findErr   error
}

func newMemStore() *memStore {
	return &memStore{teams: map[string]models.Team{}}
}

func (m *memStore) UpsertTeam(ctx context.Context, id, createdAt string) (bool, error) {
	if m.upsertDelay > 0 {
		time.Sleep(m.upsertDelay)
	}
	defer m.upsertsDone.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts = append(m.upserts, id)
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	if _, ok := m.teams[id]; ok {
		return false, nil
	}
	m.teams[id] = models.Team{ID: id, CreatedAt: createdAt}
	return true, nil
}

func (m *memStore) InsertEvent(ctx context.Context, event *models.Event) (string, error) {
	m.doneAtWrite = m.upsertsDone.Load()
	if m.insertErr != nil {
		return "", m.insertErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = primitive.NewObjectID()
	m.events = append(m.events, *event)
	return event.ID.Hex(), nil
}

func (m *memStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	if m.findErr != nil {
		return nil, m.findErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == oid {
			return &ev, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) ListEvents(ctx context.Context, limit int64) ([]models.Event, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Event{}
	for i := len(m.events) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}

func (m *memStore) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &team, nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *recordingPublisher) PublishEventCreated(ctx context.Context, event *models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
