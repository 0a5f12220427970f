//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"meditation-platform/internal/domain"
	"meditation-platform/internal/domain/model"
	"meditation-platform/internal/domain/ports/adapter"
	"meditation-platform/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func pairKey(a, b string) string { return a + "|" + b }

// =============================
// In-memory store shared by the repository mocks
// =============================

type memStore struct {
	mu         sync.Mutex
	users      map[string]*model.User
	sessions   map[string]*model.Session
	categories map[string]*model.Category
	progress   map[string]*model.UserSessionProgress
	daily      map[string]*model.DailyProgress
	favorites  map[string]time.Time
	journal    []*model.JournalEntry
	events     map[string]*model.BillingEvent
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*model.User{},
		sessions:   map[string]*model.Session{},
		categories: map[string]*model.Category{},
		progress:   map[string]*model.UserSessionProgress{},
		daily:      map[string]*model.DailyProgress{},
		favorites:  map[string]time.Time{},
		events:     map[string]*model.BillingEvent{},
	}
}

// snapshot copies every row so a failed transaction can be rolled back.
func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := newMemStore()
	for k, v := range s.users {
		u := *v
		cp.users[k] = &u
	}
	for k, v := range s.sessions {
		x := *v
		cp.sessions[k] = &x
	}
	for k, v := range s.categories {
		x := *v
		cp.categories[k] = &x
	}
	for k, v := range s.progress {
		x := *v
		cp.progress[k] = &x
	}
	for k, v := range s.daily {
		x := *v
		cp.daily[k] = &x
	}
	for k, v := range s.favorites {
		cp.favorites[k] = v
	}
	cp.journal = append(cp.journal, s.journal...)
	for k, v := range s.events {
		x := *v
		cp.events[k] = &x
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.sessions, s.categories = from.users, from.sessions, from.categories
	s.progress, s.daily, s.favorites = from.progress, from.daily, from.favorites
	s.journal, s.events = from.journal, from.events
}

func (s *memStore) addUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	if cp.SubscriptionStatus == "" {
		cp.SubscriptionStatus = model.SubscriptionStatusFree
	}
	s.users[u.ID] = &cp
}

func (s *memStore) user(id string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (s *memStore) addSession(sess *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
}

func (s *memStore) session(id string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.sessions[id]
	return &cp
}

// ---- Transaction manager with rollback ----

// MemTxManager serializes transactions and restores the store when fn fails.
type MemTxManager struct {
	store *memStore
	txMu  sync.Mutex
	Calls int
}

var _ repository.TransactionManager = (*MemTxManager)(nil)

func (m *MemTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	m.Calls++
	before := m.store.snapshot()
	if err := fn(ctx, "mem-tx"); err != nil {
		m.store.restore(before)
		return err
	}
	return nil
}

// ---- Users ----

type memUserRepo struct {
	s *memStore

	LinkageWrites int
	LinkageErr    error
	ForUpdate     int
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Upsert(ctx context.Context, tx repository.Tx, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if cur, ok := r.s.users[u.ID]; ok {
		cur.Email, cur.FirstName, cur.LastName, cur.ProfileImageURL = u.Email, u.FirstName, u.LastName, u.ProfileImageURL
		cur.UpdatedAt = time.Now()
		return nil
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *memUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if tx == nil {
		return nil, domain.ErrInvalidExecContext
	}
	r.s.mu.Lock()
	r.ForUpdate++
	r.s.mu.Unlock()
	return r.FindByID(ctx, tx, id)
}

func (r *memUserRepo) FindByBillingSubscriptionRef(ctx context.Context, tx repository.Tx, ref string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.BillingSubscriptionRef == ref })
}

func (r *memUserRepo) FindByBillingCustomerRef(ctx context.Context, tx repository.Tx, ref string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.BillingCustomerRef == ref })
}

func (r *memUserRepo) SetBillingLinkage(ctx context.Context, tx repository.Tx, userID, customerRef, subscriptionRef string) error {
	if r.LinkageErr != nil {
		return r.LinkageErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.LinkageWrites++
	u.BillingCustomerRef, u.BillingSubscriptionRef = customerRef, subscriptionRef
	return nil
}

func (r *memUserRepo) ApplySubscriptionState(ctx context.Context, tx repository.Tx, userID, subscriptionRef string, tr model.BillingTransition, syncedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SubscriptionStatus = tr.Status
	u.SubscriptionExpiresAt = tr.ExpiresAt
	switch {
	case tr.ClearSubscription:
		u.BillingSubscriptionRef = ""
	case subscriptionRef != "":
		u.BillingSubscriptionRef = subscriptionRef
	}
	synced := syncedAt
	u.BillingSyncedAt = &synced
	return nil
}

func (r *memUserRepo) TouchBillingSync(ctx context.Context, tx repository.Tx, userID string, syncedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.BillingSyncedAt == nil || syncedAt.After(*u.BillingSyncedAt) {
		synced := syncedAt
		u.BillingSyncedAt = &synced
	}
	return nil
}

func (r *memUserRepo) AddCompletedMinutes(ctx context.Context, tx repository.Tx, userID string, minutes int) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.TotalMinutes += minutes
	u.SessionsCompleted++
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateStreak(ctx context.Context, tx repository.Tx, userID string, streak int, lastCompletedDate string, badges int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CurrentStreak, u.LastCompletedDate, u.BadgesEarned = streak, lastCompletedDate, badges
	return nil
}

// ---- Catalog ----

type memCategoryRepo struct{ s *memStore }

var _ repository.CategoryRepository = (*memCategoryRepo)(nil)

func (r *memCategoryRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memCategoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) Save(ctx context.Context, tx repository.Tx, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) IncrementSessionCount(ctx context.Context, tx repository.Tx, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.SessionCount++
	return nil
}

type memSessionRepo struct {
	s *memStore

	IncrementErr error
	LastFilter   repository.SessionFilter
}

var _ repository.SessionRepository = (*memSessionRepo)(nil)

func (r *memSessionRepo) all() []*model.Session {
	out := make([]*model.Session, 0, len(r.s.sessions))
	for _, s := range r.s.sessions {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memSessionRepo) List(ctx context.Context, tx repository.Tx, f repository.SessionFilter) ([]*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.LastFilter = f
	var out []*model.Session
	for _, s := range r.all() {
		if f.CategoryID == "" || s.CategoryID == f.CategoryID {
			out = append(out, s)
		}
	}
	if f.ByPlays {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Plays > out[j].Plays })
	}
	if f.Offset >= len(out) {
		return []*model.Session{}, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memSessionRepo) ListFeatured(ctx context.Context, tx repository.Tx, limit int) ([]*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Session
	for _, s := range r.all() {
		if s.IsFeatured && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSessionRepo) ListPopular(ctx context.Context, tx repository.Tx, limit int) ([]*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.all()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Plays > out[j].Plays })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSessionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *s
	r.s.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) IncrementPlays(ctx context.Context, tx repository.Tx, id string) error {
	if r.IncrementErr != nil {
		return r.IncrementErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Plays++
	return nil
}

// ---- Progress ----

type memProgressRepo struct{ s *memStore }

var _ repository.SessionProgressRepository = (*memProgressRepo)(nil)

func (r *memProgressRepo) Upsert(ctx context.Context, tx repository.Tx, p *model.UserSessionProgress) (*model.UserSessionProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey(p.UserID, p.SessionID)
	if cur, ok := r.s.progress[k]; ok {
		cur.ProgressMinutes, cur.IsCompleted, cur.LastPlayedAt = p.ProgressMinutes, p.IsCompleted, p.LastPlayedAt
		cp := *cur
		return &cp, nil
	}
	cp := *p
	r.s.progress[k] = &cp
	out := cp
	return &out, nil
}

func (r *memProgressRepo) Find(ctx context.Context, tx repository.Tx, userID, sessionID string) (*model.UserSessionProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.progress[pairKey(userID, sessionID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memDailyRepo struct {
	s *memStore

	AddErr error
}

var _ repository.DailyProgressRepository = (*memDailyRepo)(nil)

func (r *memDailyRepo) Add(ctx context.Context, tx repository.Tx, userID, date string, minutes, sessions int) (*model.DailyProgress, error) {
	if r.AddErr != nil {
		return nil, r.AddErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey(userID, date)
	d, ok := r.s.daily[k]
	if !ok {
		d = &model.DailyProgress{ID: ulid.Make().String(), UserID: userID, Date: date, CreatedAt: time.Now()}
		r.s.daily[k] = d
	}
	d.MinutesMeditated += minutes
	d.SessionsCompleted += sessions
	cp := *d
	return &cp, nil
}

func (r *memDailyRepo) Find(ctx context.Context, tx repository.Tx, userID, date string) (*model.DailyProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.daily[pairKey(userID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

type memFavoriteRepo struct{ s *memStore }

var _ repository.FavoriteRepository = (*memFavoriteRepo)(nil)

func (r *memFavoriteRepo) Add(ctx context.Context, tx repository.Tx, userID, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey(userID, sessionID)
	if _, ok := r.s.favorites[k]; !ok {
		r.s.favorites[k] = time.Now()
	}
	return nil
}

func (r *memFavoriteRepo) Remove(ctx context.Context, tx repository.Tx, userID, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.favorites, pairKey(userID, sessionID))
	return nil
}

func (r *memFavoriteRepo) Exists(ctx context.Context, tx repository.Tx, userID, sessionID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.favorites[pairKey(userID, sessionID)]
	return ok, nil
}

func (r *memFavoriteRepo) ListSessions(ctx context.Context, tx repository.Tx, userID string) ([]*model.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Session{}
	for id, s := range r.s.sessions {
		if _, ok := r.s.favorites[pairKey(userID, id)]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memFavoriteRepo) count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.favorites)
}

type memJournalRepo struct{ s *memStore }

var _ repository.JournalRepository = (*memJournalRepo)(nil)

func (r *memJournalRepo) Save(ctx context.Context, tx repository.Tx, e *model.JournalEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.journal = append(r.s.journal, &cp)
	return nil
}

func (r *memJournalRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.JournalEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.JournalEntry
	for i := len(r.s.journal) - 1; i >= 0 && len(out) < limit; i-- {
		if e := r.s.journal[i]; e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Billing events ----

type memEventRepo struct{ s *memStore }

var _ repository.BillingEventRepository = (*memEventRepo)(nil)

func (r *memEventRepo) Insert(ctx context.Context, tx repository.Tx, ev *model.BillingEvent) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[ev.ID]; ok {
		return false, nil
	}
	cp := *ev
	r.s.events[ev.ID] = &cp
	return true, nil
}

func (r *memEventRepo) SetResult(ctx context.Context, tx repository.Tx, id string, result model.BillingEventResult, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Result, ev.UserID = result, userID
	return nil
}

// ---- Stats ----

type memStatsRepo struct {
	s *memStore

	Calls int
	Err   error
}

var _ repository.StatsRepository = (*memStatsRepo)(nil)

func (r *memStatsRepo) Aggregate(ctx context.Context, tx repository.Tx, activeSinceDay, today string) (*model.GlobalStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	gs := &model.GlobalStats{TotalSessions: len(r.s.sessions), TotalMembers: len(r.s.users)}
	for _, u := range r.s.users {
		gs.TotalMinutes += int64(u.TotalMinutes)
	}
	active := map[string]bool{}
	for _, d := range r.s.daily {
		if d.Date >= activeSinceDay {
			active[d.UserID] = true
		}
		if d.Date == today {
			gs.TotalMinutesToday += int64(d.MinutesMeditated)
		}
	}
	gs.ActiveUsers = len(active)
	return gs, nil
}

type memStatsCache struct {
	mu     sync.Mutex
	val    *model.GlobalStats
	ttl    time.Duration
	GetErr error
	Sets   int
}

var _ repository.StatsCache = (*memStatsCache)(nil)

func (c *memStatsCache) Get(ctx context.Context) (*model.GlobalStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	if c.val == nil {
		return nil, nil
	}
	cp := *c.val
	return &cp, nil
}

func (c *memStatsCache) Set(ctx context.Context, s *model.GlobalStats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	c.val, c.ttl = &cp, ttl
	c.Sets++
	return nil
}

// =============================
// Adapters
// =============================

// MockBilling behaves like a provider that honours idempotency keys.
type MockBilling struct {
	mu sync.Mutex

	subs          map[string]*model.BillingSubscription
	byKey         map[string]string
	CustomerCalls int
	SubCalls      int
	GetCalls      int
	CustomerReqs  []adapter.CustomerRequest
	SubReqs       []adapter.SubscriptionRequest

	CreateCustomerErr     error
	CreateSubscriptionErr error
	GetSubscriptionErr    error
}

var _ adapter.BillingProvider = (*MockBilling)(nil)

func NewMockBilling() *MockBilling {
	return &MockBilling{subs: map[string]*model.BillingSubscription{}, byKey: map[string]string{}}
}

func (m *MockBilling) Name() string { return "mock" }

func (m *MockBilling) CreateCustomer(ctx context.Context, req adapter.CustomerRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CustomerCalls++
	m.CustomerReqs = append(m.CustomerReqs, req)
	if m.CreateCustomerErr != nil {
		return "", m.CreateCustomerErr
	}
	if ref, ok := m.byKey[req.IdempotencyKey]; ok {
		return ref, nil
	}
	ref := fmt.Sprintf("cus_%d", len(m.byKey)+1)
	m.byKey[req.IdempotencyKey] = ref
	return ref, nil
}

func (m *MockBilling) CreateSubscription(ctx context.Context, req adapter.SubscriptionRequest) (*model.BillingSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubCalls++
	m.SubReqs = append(m.SubReqs, req)
	if m.CreateSubscriptionErr != nil {
		return nil, m.CreateSubscriptionErr
	}
	if ref, ok := m.byKey[req.IdempotencyKey]; ok {
		cp := *m.subs[ref]
		return &cp, nil
	}
	ref := fmt.Sprintf("sub_%d", len(m.subs)+1)
	sub := &model.BillingSubscription{
		Ref:           ref,
		CustomerRef:   req.CustomerRef,
		Status:        model.BillingStatusIncomplete,
		PriceRef:      req.PriceRef,
		PaymentSecret: "pi_secret_" + ref,
	}
	m.subs[ref] = sub
	m.byKey[req.IdempotencyKey] = ref
	cp := *sub
	return &cp, nil
}

func (m *MockBilling) GetSubscription(ctx context.Context, ref string) (*model.BillingSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetSubscriptionErr != nil {
		return nil, m.GetSubscriptionErr
	}
	sub, ok := m.subs[ref]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", ref)
	}
	cp := *sub
	return &cp, nil
}

// setSubscription overrides provider-side state for a subscription.
func (m *MockBilling) setSubscription(sub *model.BillingSubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs[sub.Ref] = &cp
}

// MockWebhookParser returns the queued event or error.
type MockWebhookParser struct {
	ParseEventFunc func(payload []byte, signature string) (*model.BillingEvent, error)
}

var _ adapter.WebhookParser = (*MockWebhookParser)(nil)

func (m *MockWebhookParser) ParseEvent(payload []byte, signature string) (*model.BillingEvent, error) {
	if m.ParseEventFunc != nil {
		return m.ParseEventFunc(payload, signature)
	}
	return nil, domain.ErrInvalidSignature
}

// =============================
// Fixture
// =============================

type fixture struct {
	store     *memStore
	tm        *MemTxManager
	users     *memUserRepo
	sessions  *memSessionRepo
	cats      *memCategoryRepo
	progress  *memProgressRepo
	daily     *memDailyRepo
	favorites *memFavoriteRepo
	journal   *memJournalRepo
	events    *memEventRepo
	billing   *MockBilling
	webhooks  *MockWebhookParser
}

func newFixture() *fixture {
	s := newMemStore()
	return &fixture{
		store:     s,
		tm:        &MemTxManager{store: s},
		users:     &memUserRepo{s: s},
		sessions:  &memSessionRepo{s: s},
		cats:      &memCategoryRepo{s: s},
		progress:  &memProgressRepo{s: s},
		daily:     &memDailyRepo{s: s},
		favorites: &memFavoriteRepo{s: s},
		journal:   &memJournalRepo{s: s},
		events:    &memEventRepo{s: s},
		billing:   NewMockBilling(),
		webhooks:  &MockWebhookParser{},
	}
}
