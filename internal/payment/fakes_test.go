// AngelaMos | 2026
// fakes_test.go

package payment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/auth"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/gateway"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/pending"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/plan"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/subscription"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/user"
)

type fakeGateway struct {
	disabled bool
	sessions map[string]*gateway.Session
	created  []gateway.CheckoutRequest
	event    *gateway.WebhookEvent
}

func (g *fakeGateway) Enabled() bool { return !g.disabled }

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req gateway.CheckoutRequest) (string, error) {
	if g.disabled {
		return "", gateway.ErrUnavailable
	}
	g.created = append(g.created, req)
	return fmt.Sprintf("https://checkout.test/%d", len(g.created)), nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, id string) (*gateway.Session, error) {
	if g.disabled {
		return nil, gateway.ErrUnavailable
	}
	sess, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("retrieve %s: %w", id, gateway.ErrProvider)
	}
	return sess, nil
}

func (g *fakeGateway) VerifyWebhook(_ []byte, signature string) (*gateway.WebhookEvent, error) {
	if signature != "valid" {
		return nil, gateway.ErrInvalidEvent
	}
	return g.event, nil
}

type fakePlans map[int64]plan.Plan

func (f fakePlans) Get(_ context.Context, id int64) (*plan.Plan, error) {
	p, ok := f[id]
	if !ok {
		return nil, plan.ErrNotFound
	}
	return &p, nil
}

type memPending struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*pending.Registration
}

func newMemPending() *memPending {
	return &memPending{rows: map[int64]*pending.Registration{}}
}

func (m *memPending) Create(_ context.Context, reg *pending.Registration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	reg.ID = m.nextID
	cp := *reg
	m.rows[reg.ID] = &cp
	return reg.ID, nil
}

func (m *memPending) FindByID(_ context.Context, id int64) (*pending.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.rows[id]
	if !ok {
		return nil, pending.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

func (m *memPending) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return pending.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memUsers struct {
	user.Repository
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*user.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]*user.User{}}
}

func (m *memUsers) add(u user.User) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = &u
	return &u
}

func (m *memUsers) FindOrCreateByEmail(_ context.Context, acct user.NewAccount) (*user.User, bool, error) {
	m.mu.Lock()
	email := strings.ToLower(acct.Email)
	for _, u := range m.rows {
		if u.Email == email {
			cp := *u
			m.mu.Unlock()
			return &cp, false, nil
		}
	}
	m.mu.Unlock()

	u := m.add(user.User{
		LastName:     acct.LastName,
		FirstName:    acct.FirstName,
		Email:        email,
		PasswordHash: acct.PasswordHash,
		Role:         acct.Role,
	})
	return u, true, nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (m *memUsers) PromoteToRecruiter(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.rows[id]; ok && u.Role == user.RoleCandidate {
		u.Role = user.RoleRecruiter
	}
	return nil
}

type memRecruiters struct {
	recruiter.Repository
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*recruiter.Recruiter
}

func newMemRecruiters() *memRecruiters {
	return &memRecruiters{rows: map[int64]*recruiter.Recruiter{}}
}

func (m *memRecruiters) GetByID(_ context.Context, id int64) (*recruiter.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[id]
	if !ok {
		return nil, recruiter.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *memRecruiters) GetByUserID(_ context.Context, userID int64) (*recruiter.Recruiter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.rows {
		if rec.UserID == userID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, recruiter.ErrNotFound
}

func (m *memRecruiters) EnsureForUser(
	_ context.Context,
	userID int64,
	p recruiter.Profile,
) (*recruiter.Recruiter, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.rows {
		if rec.UserID == userID {
			cp := *rec
			return &cp, false, nil
		}
	}
	m.nextID++
	rec := &recruiter.Recruiter{
		ID:             m.nextID,
		UserID:         userID,
		CompanyName:    p.CompanyName,
		Industry:       p.Industry,
		Description:    p.Description,
		CompanyEmail:   p.CompanyEmail,
		CompanyAddress: p.CompanyAddress,
	}
	m.rows[rec.ID] = rec
	cp := *rec
	return &cp, true, nil
}

type memLedger struct {
	mu       sync.Mutex
	today    func() time.Time
	payments []subscription.Payment
	subs     []subscription.Subscription
	// hidePayments makes the duplicate pre-check miss, as a concurrent
	// caller would.
	hidePayments bool
	// failNextRecord is returned once by RecordPurchase, which then
	// writes nothing.
	failNextRecord error
}

func (m *memLedger) FindPaymentByTransaction(_ context.Context, txn string) (*subscription.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hidePayments {
		return nil, subscription.ErrNotFound
	}
	for _, p := range m.payments {
		if p.TransactionID == txn {
			cp := p
			return &cp, nil
		}
	}
	return nil, subscription.ErrNotFound
}

func (m *memLedger) RecordPurchase(_ context.Context, p subscription.Purchase) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNextRecord; err != nil {
		m.failNextRecord = nil
		return nil, err
	}
	for _, existing := range m.payments {
		if existing.TransactionID == p.TransactionID {
			return nil, subscription.ErrDuplicatePayment
		}
	}
	sub := subscription.Subscription{
		ID:          int64(len(m.subs) + 1),
		RecruiterID: p.RecruiterID,
		PackID:      p.PackID,
		StartDate:   p.PaidAt,
		EndDate:     p.EndDate(),
		Status:      subscription.StatusActive,
	}
	m.subs = append(m.subs, sub)
	subID := sub.ID
	m.payments = append(m.payments, subscription.Payment{
		ID:             int64(len(m.payments) + 1),
		RecruiterID:    p.RecruiterID,
		SubscriptionID: &subID,
		Amount:         p.Amount,
		PaymentMethod:  p.PaymentMethod,
		TransactionID:  p.TransactionID,
		Status:         subscription.PaymentStatusCompleted,
		CreatedAt:      p.PaidAt,
	})
	return &sub, nil
}

func (m *memLedger) GetSubscription(_ context.Context, id int64) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (m *memLedger) CheckActive(_ context.Context, recruiterID int64) (*subscription.Subscription, error) {
	subs, _ := m.ListForRecruiter(context.Background(), recruiterID)
	if len(subs) == 0 {
		return nil, subscription.ErrNoActiveSubscription
	}
	latest := subs[0]
	if latest.EndDate.Format(time.DateOnly) < m.today().Format(time.DateOnly) {
		return nil, subscription.ErrNoActiveSubscription
	}
	return &latest, nil
}

func (m *memLedger) ListForRecruiter(_ context.Context, recruiterID int64) ([]subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []subscription.Subscription
	for _, s := range m.subs {
		if s.RecruiterID == recruiterID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memLedger) Totals(context.Context) (*subscription.Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &subscription.Totals{Payments: int64(len(m.payments))}
	for _, p := range m.payments {
		t.Revenue += p.Amount
	}
	return t, nil
}

type fakeTokens struct{}

func (fakeTokens) CreateAccessToken(c auth.AccessTokenClaims) (string, error) {
	return fmt.Sprintf("token-%d-%s", c.UserID, c.Role), nil
}
