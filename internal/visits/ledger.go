package visits

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/your-org/kiosk/internal/models"
	"github.com/your-org/kiosk/internal/observability"
)

// Store is the identity-store contract the ledger depends on. The
// store guarantees atomicity of the two write operations; the ledger
// adds per-visitor serialization and event emission on top.
type Store interface {
	UpsertVisitor(ctx context.Context, v *models.Visitor) error
	GetVisitorByEmail(ctx context.Context, email string) (*models.Visitor, error)
	AppendCheckIn(ctx context.Context, e *models.VisitEntry) error
	CloseOpenVisit(ctx context.Context, email, date string, at time.Time) (*models.VisitEntry, error)
}

// Publisher emits a visit-change notification after a successful
// transition. Publishing is best-effort: a failed publish never rolls
// back or fails the transition itself.
type Publisher interface {
	PublishVisitChange(ctx context.Context, change models.VisitChange) error
}

// Ledger applies check-in and check-out transitions to the visit
// record store. Per (visitor, date) the lifecycle is
// NoVisit -> CheckedIn -> CheckedOut; CheckedOut is terminal for that
// business date and a later date starts fresh.
type Ledger struct {
	store       Store
	pub         Publisher
	loc         *time.Location
	defaultLang string

	// now is swapped in tests for a fixed clock.
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(store Store, pub Publisher, loc *time.Location, defaultLang string) *Ledger {
	if defaultLang == "" {
		defaultLang = "fr"
	}
	return &Ledger{
		store:       store,
		pub:         pub,
		loc:         loc,
		defaultLang: defaultLang,
		now:         time.Now,
		locks:       map[string]*sync.Mutex{},
	}
}

// BusinessDate converts an instant to the organizational calendar date
// used for day-scoping.
func (l *Ledger) BusinessDate(t time.Time) string {
	return t.In(l.loc).Format("2006-01-02")
}

// visitorLock returns the mutex serializing transitions for one
// visitor. Locks are kept for the process lifetime; the map is bounded
// by the visitor population.
func (l *Ledger) visitorLock(email string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[email]
	if !ok {
		m = &sync.Mutex{}
		l.locks[email] = m
	}
	return m
}

type CheckInRequest struct {
	Email     string
	FirstName string
	LastName  string
	PhotoKey  string
	Purpose   string
	Contact   string
	Language  string
	// Register marks a kiosk registration (new visitor form) rather
	// than a returning check-in; it only changes the emitted event.
	Register bool
}

// CheckIn records a check-in for the visitor's current business date.
// The visitor is created on first contact. A repeated check-in on the
// same date while a visit is open merges purpose, contact and language
// into the open entry instead of duplicating it, and never fails.
func (l *Ledger) CheckIn(ctx context.Context, req CheckInRequest) (*models.Visitor, *models.VisitEntry, error) {
	lock := l.visitorLock(req.Email)
	lock.Lock()
	defer lock.Unlock()

	v := &models.Visitor{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhotoKey:  req.PhotoKey,
	}
	if err := l.store.UpsertVisitor(ctx, v); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrVisitorLookup, err)
	}

	now := l.now()
	local := now.In(l.loc)
	checkIn := now

	entry := &models.VisitEntry{
		VisitorID:   v.ID,
		Date:        l.BusinessDate(now),
		TimeOfDay:   local.Format("15:04:05"),
		CheckInTime: &checkIn,
		Purpose:     orDefault(req.Purpose, models.UnspecifiedPurpose),
		Language:    orDefault(req.Language, l.defaultLang),
		Contact:     orDefault(req.Contact, models.UnspecifiedContact),
	}
	if err := l.store.AppendCheckIn(ctx, entry); err != nil {
		return nil, nil, fmt.Errorf("record check-in for %s: %w", req.Email, err)
	}

	observability.CheckIns.Inc()

	evtType := models.VisitCheckedIn
	if req.Register {
		evtType = models.VisitRegistered
	}
	l.publish(ctx, evtType, v, entry)

	return v, entry, nil
}

// CheckOut closes the unique open entry for the visitor's current
// business date. ErrNoOpenVisit is returned when nothing matches:
// unknown email, no visit today, or already checked out.
func (l *Ledger) CheckOut(ctx context.Context, email string) (*models.VisitEntry, error) {
	lock := l.visitorLock(email)
	lock.Lock()
	defer lock.Unlock()

	now := l.now()
	entry, err := l.store.CloseOpenVisit(ctx, email, l.BusinessDate(now), now)
	if err != nil {
		return nil, fmt.Errorf("record check-out for %s: %w", email, err)
	}
	if entry == nil {
		observability.CheckOutFailures.Inc()
		return nil, fmt.Errorf("%w: %s on %s", ErrNoOpenVisit, email, l.BusinessDate(now))
	}

	observability.CheckOuts.Inc()

	v, err := l.store.GetVisitorByEmail(ctx, email)
	if err != nil || v == nil {
		// The transition itself succeeded; publish with what we have.
		v = &models.Visitor{Email: email}
	}
	l.publish(ctx, models.VisitCheckedOut, v, entry)

	return entry, nil
}

func (l *Ledger) publish(ctx context.Context, evtType models.VisitEventType, v *models.Visitor, entry *models.VisitEntry) {
	if l.pub == nil {
		return
	}
	change := models.VisitChange{
		Type:       evtType,
		Email:      v.Email,
		FirstName:  v.FirstName,
		LastName:   v.LastName,
		Entry:      *entry,
		OccurredAt: l.now(),
	}
	if err := l.pub.PublishVisitChange(ctx, change); err != nil {
		slog.Warn("publish visit change", "type", evtType, "email", v.Email, "error", err)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
