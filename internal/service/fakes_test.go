package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/homebuilt/warranty-service/internal/analytics"
	"github.com/homebuilt/warranty-service/internal/cache"
	"github.com/homebuilt/warranty-service/internal/domain"
	"github.com/homebuilt/warranty-service/internal/events"
	"github.com/homebuilt/warranty-service/internal/repository"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type memClaimRepo struct {
	mu      sync.Mutex
	seq     int
	order   []string
	claims  map[string]domain.Claim
	failOn  map[string]error
	updates int
}

func newMemClaimRepo(claims ...domain.Claim) *memClaimRepo {
	r := &memClaimRepo{claims: map[string]domain.Claim{}, failOn: map[string]error{}}
	for _, c := range claims {
		r.order = append(r.order, c.ID)
		r.claims[c.ID] = copyClaim(c)
	}
	return r
}

func copyClaim(c domain.Claim) domain.Claim {
	c.ProposedDates = append([]domain.ProposedDate(nil), c.ProposedDates...)
	c.Comments = append([]domain.ClaimComment(nil), c.Comments...)
	return c
}

func (r *memClaimRepo) Create(_ context.Context, claim *domain.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	claim.ID = fmt.Sprintf("claim-%d", r.seq)
	claim.CreatedAt = fixedNow
	claim.UpdatedAt = fixedNow
	r.order = append(r.order, claim.ID)
	r.claims[claim.ID] = copyClaim(*claim)
	return nil
}

func (r *memClaimRepo) Update(_ context.Context, claim *domain.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.claims[claim.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.updates++
	r.claims[claim.ID] = copyClaim(*claim)
	return nil
}

func (r *memClaimRepo) GetByID(_ context.Context, id string) (*domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := copyClaim(c)
	return &out, nil
}

func (r *memClaimRepo) List(_ context.Context, filter repository.ClaimFilter) ([]domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Claim{}
	for _, id := range r.order {
		c, ok := r.claims[id]
		if !ok {
			continue
		}
		if filter.HomeownerName != nil && c.HomeownerName != *filter.HomeownerName {
			continue
		}
		if filter.Address != nil && c.Address != *filter.Address {
			continue
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			hay := strings.ToLower(c.ClaimNumber + " " + c.HomeownerName + " " + c.Address)
			if !strings.Contains(hay, term) {
				continue
			}
		}
		out = append(out, copyClaim(c))
	}
	return out, nil
}

func (r *memClaimRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[id]; ok {
		return err
	}
	if _, ok := r.claims[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.claims, id)
	return nil
}

type memMessageRepo struct {
	mu   sync.Mutex
	seq  int
	msgs []domain.ClaimMessage
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.ClaimMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	msg.ID = fmt.Sprintf("msg-%d", r.seq)
	r.msgs = append(r.msgs, *msg)
	return nil
}

func (r *memMessageRepo) ListByClaim(_ context.Context, claimID string) ([]domain.ClaimMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ClaimMessage{}
	for _, m := range r.msgs {
		if m.ClaimID == claimID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) all() []domain.ClaimMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ClaimMessage{}, r.msgs...)
}

type memHomeownerRepo struct {
	homeowners []domain.Homeowner
	err        error
}

func (r *memHomeownerRepo) GetByID(_ context.Context, id string) (*domain.Homeowner, error) {
	for _, h := range r.homeowners {
		if h.ID == id {
			out := h
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memHomeownerRepo) List(_ context.Context, builderID *string) ([]domain.Homeowner, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []domain.Homeowner{}
	for _, h := range r.homeowners {
		if builderID != nil && h.BuilderID != *builderID {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// memDashboardReader assembles dashboard data from the in-memory repos.
type memDashboardReader struct {
	claims     repository.ClaimRepository
	homeowners repository.HomeownerRepository
	messages   *memMessageRepo
	reads      int
}

func (r *memDashboardReader) ReadDashboard(ctx context.Context) (*repository.DashboardData, error) {
	r.reads++
	claims, err := r.claims.List(ctx, repository.ClaimFilter{})
	if err != nil {
		return nil, err
	}
	homeowners, err := r.homeowners.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &repository.DashboardData{Claims: claims, Homeowners: homeowners, Messages: r.messages.all()}, nil
}

type memGroupRepo struct {
	groups []domain.BuilderGroup
}

func (r *memGroupRepo) GetByID(_ context.Context, id string) (*domain.BuilderGroup, error) {
	for _, g := range r.groups {
		if g.ID == id {
			out := g
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memGroupRepo) List(_ context.Context) ([]domain.BuilderGroup, error) {
	return append([]domain.BuilderGroup{}, r.groups...), nil
}

type memAccountRepo struct {
	accounts []domain.Account
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			out := a
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// memSnapshotCache mirrors the generation semantics of the Redis cache.
type memSnapshotCache struct {
	mu          sync.Mutex
	generation  cache.Generation
	entries     map[string]analytics.Snapshot
	gets        int
	sets        int
	invalidated int
	getErr      error
}

func newMemSnapshotCache() *memSnapshotCache {
	return &memSnapshotCache{entries: map[string]analytics.Snapshot{}}
}

func (c *memSnapshotCache) Get(_ context.Context, group string) (*analytics.Snapshot, cache.Generation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	snap, ok := c.entries[cache.SnapshotKey("mem", c.generation, group)]
	if !ok {
		return nil, c.generation, nil
	}
	return &snap, c.generation, nil
}

func (c *memSnapshotCache) Set(_ context.Context, group string, gen cache.Generation, snap analytics.Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl <= 0 {
		return nil
	}
	c.sets++
	c.entries[cache.SnapshotKey("mem", gen, group)] = snap
	return nil
}

func (c *memSnapshotCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.generation++
	return nil
}

type recordingDispatcher struct {
	events.Dispatcher
	mu        sync.Mutex
	published []events.Event
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{Dispatcher: events.NewInMemoryDispatcher()}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.published = append(d.published, event)
	d.mu.Unlock()
	return d.Dispatcher.Publish(ctx, event)
}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

var errBoom = errors.New("boom")

func strPtr(s string) *string { return &s }

func staffAccount() *domain.Account {
	return &domain.Account{ID: "acct-staff", Name: "Sam Staff", Role: domain.AccountRoleStaff, Active: true}
}

func adminAccount() *domain.Account {
	return &domain.Account{ID: "acct-admin", Name: "Ada Admin", Role: domain.AccountRoleAdmin, Active: true}
}

func homeownerAccount(homeownerID string) *domain.Account {
	return &domain.Account{ID: "acct-" + homeownerID, Name: "Owner", Role: domain.AccountRoleHomeowner, HomeownerID: strPtr(homeownerID), Active: true}
}

func builderAccount(builderID string) *domain.Account {
	return &domain.Account{ID: "acct-" + builderID, Name: "Builder", Role: domain.AccountRoleBuilder, BuilderID: strPtr(builderID), Active: true}
}
