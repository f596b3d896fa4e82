package ipgate

import (
	"context"
	"sync"

	"mailroom/internal/domain"
)

type fakeStore struct {
	mu        sync.Mutex
	entries   []domain.WhitelistEntry
	nextID    uint64
	listCalls int

	listErr   error
	insertErr error
	updateErr error
	deleteErr error
}

func newFakeStore(cidrs ...string) *fakeStore {
	s := &fakeStore{}
	for _, cidr := range cidrs {
		s.nextID++
		s.entries = append(s.entries, domain.WhitelistEntry{ID: s.nextID, CIDR: cidr})
	}
	return s
}

func (s *fakeStore) ListEntries(ctx context.Context) ([]domain.WhitelistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.WhitelistEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *fakeStore) InsertEntry(ctx context.Context, entry *domain.WhitelistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, existing := range s.entries {
		if existing.CIDR == entry.CIDR {
			return ErrDuplicate
		}
	}
	s.nextID++
	entry.ID = s.nextID
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeStore) UpdateEntry(ctx context.Context, entry *domain.WhitelistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	for _, existing := range s.entries {
		if existing.ID != entry.ID && existing.CIDR == entry.CIDR {
			return ErrDuplicate
		}
	}
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i].CIDR = entry.CIDR
			s.entries[i].Description = entry.Description
			s.entries[i].UpdatedBy = entry.UpdatedBy
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeStore) DeleteEntry(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *fakeStore) cidrs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.CIDR)
	}
	return out
}

func entryWithID(id uint64, cidr string) domain.WhitelistEntry {
	return domain.WhitelistEntry{ID: id, CIDR: cidr}
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (a *fakeAudit) Record(ctx context.Context, actorID uint, action, entityType string, entityID uint64, details map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.actions = append(a.actions, action)
	return nil
}

func (a *fakeAudit) recorded() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.actions))
	copy(out, a.actions)
	return out
}
