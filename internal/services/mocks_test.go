package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/mock"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/models"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/onboarding"
)

// ---------------------------------------------------------------------
// testify mocks
// ---------------------------------------------------------------------

type mockAccountRepo struct{ mock.Mock }

func (m *mockAccountRepo) Create(ctx context.Context, a *models.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	args := m.Called(ctx, id)
	acc, _ := args.Get(0).(*models.Account)
	return acc, args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	acc, _ := args.Get(0).(*models.Account)
	return acc, args.Error(1)
}

func (m *mockAccountRepo) UpdateIfVersion(ctx context.Context, a *models.Account, expected int64) (pgconn.CommandTag, error) {
	args := m.Called(ctx, a, expected)
	tag, _ := args.Get(0).(pgconn.CommandTag)
	return tag, args.Error(1)
}

func (m *mockAccountRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Account) error) error {
	args := m.Called(ctx, id, mutate)
	if acc, ok := args.Get(0).(*models.Account); ok && acc != nil {
		if err := mutate(acc); err != nil {
			return err
		}
	}
	return args.Error(1)
}

type mockPropertyRepo struct{ mock.Mock }

func (m *mockPropertyRepo) Create(ctx context.Context, p *models.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, accountID)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*models.Property, error) {
	args := m.Called(ctx, sessionID)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	args := m.Called(ctx, p, expected)
	tag, _ := args.Get(0).(pgconn.CommandTag)
	return tag, args.Error(1)
}

func (m *mockPropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	args := m.Called(ctx, id, mutate)
	if p, ok := args.Get(0).(*models.Property); ok && p != nil {
		if err := mutate(p); err != nil {
			return err
		}
	}
	return args.Error(1)
}

type mockEmailCodes struct{ mock.Mock }

func (m *mockEmailCodes) CreateCode(ctx context.Context, accountID uuid.UUID, email, code string, expiresAt time.Time) error {
	return m.Called(ctx, accountID, email, code, expiresAt).Error(0)
}

func (m *mockEmailCodes) GetLatest(ctx context.Context, accountID uuid.UUID) (*models.EmailVerificationCode, error) {
	args := m.Called(ctx, accountID)
	c, _ := args.Get(0).(*models.EmailVerificationCode)
	return c, args.Error(1)
}

func (m *mockEmailCodes) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmailCodes) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmailCodes) DeleteCode(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmailCodes) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(ctx context.Context, toEmail, subject, plain, html string) error {
	return m.Called(ctx, toEmail, subject, plain, html).Error(0)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, toPhone, body string) error {
	return m.Called(ctx, toPhone, body).Error(0)
}

type mockContactSales struct{ mock.Mock }

func (m *mockContactSales) Create(ctx context.Context, req *models.ContactSalesRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockContactSales) MarkNotified(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockContactSales) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.ContactSalesRequest, error) {
	args := m.Called(ctx, propertyID)
	list, _ := args.Get(0).([]*models.ContactSalesRequest)
	return list, args.Error(1)
}

type mockVerification struct{ mock.Mock }

func (m *mockVerification) RequestCode(ctx context.Context, accountID uuid.UUID) error {
	return m.Called(ctx, accountID).Error(0)
}

func (m *mockVerification) ConfirmCode(ctx context.Context, accountID uuid.UUID, code string) (*onboarding.Transition, error) {
	args := m.Called(ctx, accountID, code)
	t, _ := args.Get(0).(*onboarding.Transition)
	return t, args.Error(1)
}

// ---------------------------------------------------------------------
// stateful fakes
// ---------------------------------------------------------------------

// fakeProgressRepo applies mutations to an in-memory row the way
// UpdateWithRetry does against the database.
type fakeProgressRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*models.OnboardingProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: map[uuid.UUID]*models.OnboardingProgress{}}
}

func (f *fakeProgressRepo) put(accountID uuid.UUID, step onboarding.Step) {
	f.rows[accountID] = &models.OnboardingProgress{AccountID: accountID, CurrentStep: step}
}

func (f *fakeProgressRepo) Create(_ context.Context, p *models.OnboardingProgress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.rows[p.AccountID] = &cp
	return nil
}

func (f *fakeProgressRepo) GetByAccountID(_ context.Context, accountID uuid.UUID) (*models.OnboardingProgress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[accountID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProgressRepo) UpdateIfVersion(context.Context, *models.OnboardingProgress, int64) (pgconn.CommandTag, error) {
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakeProgressRepo) UpdateWithRetry(_ context.Context, accountID uuid.UUID, mutate func(*models.OnboardingProgress) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[accountID]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.RowVersion++
	f.rows[accountID] = &cp
	return nil
}

type fakeMSPRepo struct {
	mu        sync.Mutex
	entries   []*models.MSPEntry
	createErr func(e *models.MSPEntry) error
}

func (f *fakeMSPRepo) Create(_ context.Context, e *models.MSPEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if err := f.createErr(e); err != nil {
			return err
		}
	}
	e.CreatedAt = time.Now()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeMSPRepo) ListByPropertyID(_ context.Context, propertyID uuid.UUID) ([]*models.MSPEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MSPEntry
	for _, e := range f.entries {
		if e.PropertyID == propertyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeMSPRepo) CountByPropertyID(ctx context.Context, propertyID uuid.UUID) (int, error) {
	list, _ := f.ListByPropertyID(ctx, propertyID)
	return len(list), nil
}

// fakeWizard records advances.
type fakeWizard struct {
	mu       sync.Mutex
	advanced []onboarding.Step
	err      error
	selected map[string]onboarding.PMSSelection
}

func (w *fakeWizard) Advance(_ context.Context, _ string, step onboarding.Step) (*onboarding.Transition, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	w.advanced = append(w.advanced, step)
	next := onboarding.NextStep(step)
	p := onboarding.Progress{CurrentStep: *next, Completed: *next == onboarding.StepComplete}
	return &onboarding.Transition{From: step, Progress: p, Route: w.Routes().For(*next)}, nil
}

func (w *fakeWizard) Routes() onboarding.RouteTable { return onboarding.DefaultRouteTable() }

func (w *fakeWizard) RememberPMSSelection(accountID string, sel onboarding.PMSSelection) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		w.selected = map[string]onboarding.PMSSelection{}
	}
	w.selected[accountID] = sel
}

func strPtr(s string) *string { return &s }
