package visits

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/kiosk/internal/models"
)

// fakeStore mimics the Postgres store's merge-on-conflict semantics in
// memory.
type fakeStore struct {
	mu       sync.Mutex
	visitors map[string]*models.Visitor
	entries  []*models.VisitEntry

	upsertErr error
	closeErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{visitors: map[string]*models.Visitor{}}
}

func (s *fakeStore) UpsertVisitor(_ context.Context, v *models.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	existing, ok := s.visitors[v.Email]
	if !ok {
		v.ID = uuid.New()
		v.RegisteredAt = time.Now()
		stored := *v
		s.visitors[v.Email] = &stored
		return nil
	}
	if v.FirstName != "" {
		existing.FirstName = v.FirstName
	}
	if v.LastName != "" {
		existing.LastName = v.LastName
	}
	if v.PhotoKey != "" {
		existing.PhotoKey = v.PhotoKey
	}
	*v = *existing
	return nil
}

func (s *fakeStore) GetVisitorByEmail(_ context.Context, email string) (*models.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[email]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *fakeStore) AppendCheckIn(_ context.Context, e *models.VisitEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.VisitorID == e.VisitorID && existing.Date == e.Date && existing.CheckOutTime == nil {
			existing.Purpose = e.Purpose
			existing.Language = e.Language
			existing.Contact = e.Contact
			*e = *existing
			return nil
		}
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	stored := *e
	s.entries = append(s.entries, &stored)
	return nil
}

func (s *fakeStore) CloseOpenVisit(_ context.Context, email, date string, at time.Time) (*models.VisitEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr != nil {
		return nil, s.closeErr
	}
	v, ok := s.visitors[email]
	if !ok {
		return nil, nil
	}
	for _, e := range s.entries {
		if e.VisitorID == v.ID && e.Date == date && e.CheckInTime != nil && e.CheckOutTime == nil {
			out := at
			e.CheckOutTime = &out
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) openEntries(email string) []models.VisitEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[email]
	if !ok {
		return nil
	}
	var open []models.VisitEntry
	for _, e := range s.entries {
		if e.VisitorID == v.ID && e.CheckOutTime == nil {
			open = append(open, *e)
		}
	}
	return open
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []models.VisitChange
	err     error
}

func (p *fakePublisher) PublishVisitChange(_ context.Context, change models.VisitChange) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.changes = append(p.changes, change)
	return nil
}

func (p *fakePublisher) types() []models.VisitEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.VisitEventType, 0, len(p.changes))
	for _, c := range p.changes {
		out = append(out, c.Type)
	}
	return out
}

func testLedger(t *testing.T, store Store, pub Publisher, now time.Time) *Ledger {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	l := NewLedger(store, pub, loc, "fr")
	l.now = func() time.Time { return now }
	return l
}

func TestCheckInCreatesVisitorWithDefaults(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l := testLedger(t, store, pub, now)

	v, entry, err := l.CheckIn(context.Background(), CheckInRequest{
		Email:     "a@x.com",
		FirstName: "Marie",
		LastName:  "Dupont",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, v.ID)
	assert.Equal(t, "2024-01-10", entry.Date)
	assert.Equal(t, "10:00:00", entry.TimeOfDay, "local time in the organizational timezone")
	assert.Equal(t, models.UnspecifiedPurpose, entry.Purpose)
	assert.Equal(t, models.UnspecifiedContact, entry.Contact)
	assert.Equal(t, "fr", entry.Language)
	require.NotNil(t, entry.CheckInTime)
	assert.Nil(t, entry.CheckOutTime)

	assert.Equal(t, []models.VisitEventType{models.VisitCheckedIn}, pub.types())
}

func TestCheckInRegisterEmitsRegisteredEvent(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	l := testLedger(t, store, pub, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	_, _, err := l.CheckIn(context.Background(), CheckInRequest{
		Email:    "a@x.com",
		Register: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []models.VisitEventType{models.VisitRegistered}, pub.types())
}

func TestRepeatCheckInMergesOpenEntry(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l := testLedger(t, store, nil, now)

	_, first, err := l.CheckIn(context.Background(), CheckInRequest{
		Email:   "a@x.com",
		Purpose: "Livraison",
	})
	require.NoError(t, err)

	l.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, second, err := l.CheckIn(context.Background(), CheckInRequest{
		Email:   "a@x.com",
		Purpose: "Réunion",
		Contact: "alaa",
	})
	require.NoError(t, err)

	open := store.openEntries("a@x.com")
	require.Len(t, open, 1, "same-day re-check-in must not duplicate the entry")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Réunion", open[0].Purpose)
	assert.Equal(t, "alaa", open[0].Contact)
	assert.True(t, open[0].CheckInTime.Equal(now), "original check-in instant is preserved")
}

func TestCheckInAfterCheckOutOpensNewEntry(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l := testLedger(t, store, nil, now)

	_, _, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = l.CheckOut(context.Background(), "a@x.com")
	require.NoError(t, err)

	l.now = func() time.Time { return now.Add(3 * time.Hour) }
	_, entry, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
	require.NoError(t, err)

	assert.Nil(t, entry.CheckOutTime, "a closed visit does not reopen")
	require.Len(t, store.openEntries("a@x.com"), 1)
}

func TestCheckOutClosesOpenEntry(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	l := testLedger(t, store, pub, now)

	_, _, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
	require.NoError(t, err)

	l.now = func() time.Time { return now.Add(45 * time.Minute) }
	entry, err := l.CheckOut(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.NotNil(t, entry.CheckOutTime)
	assert.Equal(t, 45*time.Minute, entry.Duration())
	assert.Equal(t, []models.VisitEventType{models.VisitCheckedIn, models.VisitCheckedOut}, pub.types())
}

func TestCheckOutWithoutOpenVisit(t *testing.T) {
	store := newFakeStore()
	l := testLedger(t, store, nil, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	_, err := l.CheckOut(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrNoOpenVisit)
}

func TestDoubleCheckOut(t *testing.T) {
	store := newFakeStore()
	l := testLedger(t, store, nil, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	_, _, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = l.CheckOut(context.Background(), "a@x.com")
	require.NoError(t, err)

	_, err = l.CheckOut(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrNoOpenVisit)
}

func TestCheckInStoreFailureWrapsLookupError(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("connection refused")
	l := testLedger(t, store, nil, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	_, _, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrVisitorLookup)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("nats down")}
	l := testLedger(t, store, pub, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	_, _, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
	assert.NoError(t, err)
}

func TestConcurrentCheckInsSingleOpenEntry(t *testing.T) {
	store := newFakeStore()
	l := testLedger(t, store, nil, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := l.CheckIn(context.Background(), CheckInRequest{Email: "a@x.com"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, store.openEntries("a@x.com"), 1)
}

func TestBusinessDateUsesOrganizationalTimezone(t *testing.T) {
	l := testLedger(t, newFakeStore(), nil, time.Time{})

	// 23:30 UTC on Jan 9 is already Jan 10 in Paris.
	utc := time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-10", l.BusinessDate(utc))
}
