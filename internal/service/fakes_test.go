package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"prompt_badges/internal/badges"
	"prompt_badges/internal/domain"
	"prompt_badges/internal/scoring"
)

// memStore implements every store interface in memory.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]*domain.User
	prompts  map[int64][]domain.Prompt
	comments map[int64][]domain.Comment
	replies  map[int64]int64

	getErr map[int64]error
	// writeErr fails ledger writes for one badge id
	writeErr map[string]error
	// staleReads hides the ledger from GetUser, as a concurrent trigger would see it
	staleReads bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*domain.User),
		prompts:  make(map[int64][]domain.Prompt),
		comments: make(map[int64][]domain.Comment),
		replies:  make(map[int64]int64),
		getErr:   make(map[int64]error),
		writeErr: make(map[string]error),
	}
}

func (m *memStore) addUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = &u
}

func (m *memStore) user(id int64) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *m.users[id]
	u.Badges = slices.Clone(u.Badges)
	return &u
}

func (m *memStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[id]; err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	cp := *u
	cp.Badges = slices.Clone(u.Badges)
	if m.staleReads {
		cp.Badges = nil
	}
	return &cp, nil
}

func (m *memStore) ApplyStatsPatch(ctx context.Context, id int64, p domain.StatsPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	counter := func(f domain.StatField) *int64 {
		switch f {
		case domain.StatTotalPrompts:
			return &u.TotalPrompts
		case domain.StatFollowers:
			return &u.Followers
		case domain.StatFollowing:
			return &u.Following
		case domain.StatConsecutiveDays:
			return &u.ConsecutiveDays
		}
		return nil
	}
	for f, v := range p.Set {
		*counter(f) = v
	}
	for f, v := range p.Increment {
		c := counter(f)
		*c = max(*c+v, 0)
	}
	if p.LastActiveAt != nil {
		at := *p.LastActiveAt
		u.LastActiveAt = &at
	}
	return nil
}

func (m *memStore) ListUserIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int64
	for id := range m.users {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memStore) AppendBadgeIfAbsent(ctx context.Context, userID int64, b domain.UserBadge) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeErr[b.BadgeID]; err != nil {
		return false, err
	}
	u, ok := m.users[userID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if u.Badge(b.BadgeID) != nil {
		return false, nil
	}
	u.Badges = append(u.Badges, b)
	return true, nil
}

func (m *memStore) SetBadgeLevelIfGreater(ctx context.Context, userID int64, badgeID string, level int, earnedAt time.Time, progress float64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeErr[badgeID]; err != nil {
		return false, err
	}
	u, ok := m.users[userID]
	if !ok {
		return false, domain.ErrNotFound
	}
	b := u.Badge(badgeID)
	if b == nil || b.Level >= level {
		return false, nil
	}
	b.Level = level
	b.Progress = progress
	if earnedAt.After(b.EarnedAt) {
		b.EarnedAt = earnedAt
	}
	return true, nil
}

func (m *memStore) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Prompt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.prompts[ownerID]), nil
}

func (m *memStore) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.comments[authorID]), nil
}

func (m *memStore) CountRepliesReceived(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replies[userID], nil
}

type countingInvalidator struct {
	mu sync.Mutex
	n  int
}

func (c *countingInvalidator) Invalidate() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

var errBoom = errors.New("boom")

type fixture struct {
	store   *memStore
	inval   *countingInvalidator
	catalog *badges.Catalog
	badges  *BadgeService
}

// newFixture builds a BadgeService over memStore. With ids set, the catalog
// is narrowed to those default badges.
func newFixture(t *testing.T, ids ...string) *fixture {
	t.Helper()

	defs := badges.DefaultDefinitions()
	if len(ids) > 0 {
		defs = slices.DeleteFunc(defs, func(d badges.Definition) bool { return !slices.Contains(ids, d.ID) })
	}
	catalog, err := badges.NewCatalog(defs)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	calc, err := scoring.NewCalculator(scoring.DefaultConfig(), catalog)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}

	store := newMemStore()
	inval := &countingInvalidator{}
	svc := NewBadgeService(store, catalog, NewStatsAggregator(store, store), NewLedgerWriter(store, inval), calc)
	return &fixture{store: store, inval: inval, catalog: catalog, badges: svc}
}
