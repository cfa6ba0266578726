package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

// fakePaymentRepo is an in-memory PaymentRepository with the same
// conditional-write semantics as the real adapter, so the race
// properties can be exercised directly.
type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  map[uuid.UUID]*core.Payment
	createErr error
	attachErr error
	settleErr error
	lastScope core.AccessScope
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*core.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *core.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	clone := *payment
	f.payments[payment.ID] = &clone
	return nil
}

func (f *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*core.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, core.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentRepo) GetByCheckoutRequestID(_ context.Context, token string) (*core.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.CheckoutRequestID == token {
			clone := *p
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("checkout request %s: %w", token, core.ErrNotFound)
}

func (f *fakePaymentRepo) AttachCheckoutRequestID(_ context.Context, id uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	p, ok := f.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, core.ErrNotFound)
	}
	if p.CheckoutRequestID != "" {
		return fmt.Errorf("payment %s has no token slot: %w", id, core.ErrAlreadyProcessed)
	}
	p.CheckoutRequestID = token
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakePaymentRepo) SettleIfPending(_ context.Context, token string, status core.PaymentStatus, resultCode int, resultDescription string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settleErr != nil {
		return false, f.settleErr
	}
	for _, p := range f.payments {
		if p.CheckoutRequestID != token {
			continue
		}
		if p.Status != core.PaymentStatusPending {
			return false, nil
		}
		p.Status = status
		p.ResultCode = &resultCode
		p.ResultDescription = resultDescription
		p.UpdatedAt = time.Now()
		return true, nil
	}
	return false, nil
}

func (f *fakePaymentRepo) List(_ context.Context, scope core.AccessScope) ([]*core.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastScope = scope
	payments := make([]*core.Payment, 0, len(f.payments))
	for _, p := range f.payments {
		clone := *p
		payments = append(payments, &clone)
	}
	return payments, nil
}

func (f *fakePaymentRepo) ListStalePending(_ context.Context, cutoff time.Time) ([]*core.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stale []*core.Payment
	for _, p := range f.payments {
		if p.Method == core.PaymentMethodMpesa && p.Status == core.PaymentStatusPending && p.CreatedAt.Before(cutoff) {
			clone := *p
			stale = append(stale, &clone)
		}
	}
	return stale, nil
}

func (f *fakePaymentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payments)
}

func (f *fakePaymentRepo) single() *core.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		clone := *p
		return &clone
	}
	return nil
}

// fakeTenantRepo resolves leases from in-memory maps.
type fakeTenantRepo struct {
	byID     map[uuid.UUID]*core.Tenant
	byUserID map[uuid.UUID]*core.Tenant
}

func newFakeTenantRepo(tenants ...*core.Tenant) *fakeTenantRepo {
	f := &fakeTenantRepo{
		byID:     make(map[uuid.UUID]*core.Tenant),
		byUserID: make(map[uuid.UUID]*core.Tenant),
	}
	for _, t := range tenants {
		f.byID[t.ID] = t
		f.byUserID[t.UserID] = t
	}
	return f
}

func (f *fakeTenantRepo) Create(_ context.Context, tenant *core.Tenant) error {
	f.byID[tenant.ID] = tenant
	f.byUserID[tenant.UserID] = tenant
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*core.Tenant, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (f *fakeTenantRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*core.Tenant, error) {
	t, ok := f.byUserID[userID]
	if !ok {
		return nil, fmt.Errorf("tenant for user %s: %w", userID, core.ErrNotFound)
	}
	return t, nil
}

func (f *fakeTenantRepo) List(_ context.Context, _ core.AccessScope) ([]*core.Tenant, error) {
	tenants := make([]*core.Tenant, 0, len(f.byID))
	for _, t := range f.byID {
		tenants = append(tenants, t)
	}
	return tenants, nil
}

func (f *fakeTenantRepo) Update(_ context.Context, tenant *core.Tenant) error {
	f.byID[tenant.ID] = tenant
	return nil
}

func (f *fakeTenantRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

// fakePropertyRepo resolves properties from an in-memory map.
type fakePropertyRepo struct {
	byID map[uuid.UUID]*core.Property
}

func newFakePropertyRepo(properties ...*core.Property) *fakePropertyRepo {
	f := &fakePropertyRepo{byID: make(map[uuid.UUID]*core.Property)}
	for _, p := range properties {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePropertyRepo) Create(_ context.Context, property *core.Property) error {
	f.byID[property.ID] = property
	return nil
}

func (f *fakePropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*core.Property, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("property %s: %w", id, core.ErrNotFound)
	}
	return p, nil
}

func (f *fakePropertyRepo) List(_ context.Context, _ core.AccessScope) ([]*core.Property, error) {
	properties := make([]*core.Property, 0, len(f.byID))
	for _, p := range f.byID {
		properties = append(properties, p)
	}
	return properties, nil
}

func (f *fakePropertyRepo) Update(_ context.Context, property *core.Property) error {
	f.byID[property.ID] = property
	return nil
}

func (f *fakePropertyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

// fakeGateway lets tests script the gateway's behavior and observe
// when it was called.
type fakeGateway struct {
	pushFn func(ctx context.Context, req output.STKPushRequest) (*output.STKPushResult, error)
	calls  int
}

func (f *fakeGateway) STKPush(ctx context.Context, req output.STKPushRequest) (*output.STKPushResult, error) {
	f.calls++
	return f.pushFn(ctx, req)
}

// fakeMessaging records published settlement events.
type fakeMessaging struct {
	mu         sync.Mutex
	events     []output.SettlementEvent
	publishErr error
}

func (f *fakeMessaging) PublishSettlement(event output.SettlementEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeMessaging) Close() error { return nil }

func (f *fakeMessaging) published() []output.SettlementEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]output.SettlementEvent(nil), f.events...)
}

// fakeUserRepo stores users in memory.
type fakeUserRepo struct {
	byID    map[uuid.UUID]*core.User
	byEmail map[string]*core.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*core.User),
		byEmail: make(map[string]*core.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *core.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return fmt.Errorf("email %s: %w", user.Email, core.ErrDuplicateEntry)
	}
	user.CreatedAt = time.Now()
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*core.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*core.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
	}
	return u, nil
}
