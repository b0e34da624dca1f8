package user

import (
	"context"
	"errors"
	"testing"

	"github.com/waport/waport/internal/ledger"
	"github.com/waport/waport/internal/logging"
)

func newTestService() (*Service, ledger.Repository) {
	credits := ledger.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(credits), nil, logging.Discard())
	return svc, credits
}

// flakyLedger fails Record until disarmed, then delegates to the real store.
type flakyLedger struct {
	ledger.Repository
	fail bool
}

func (f *flakyLedger) Record(ctx context.Context, tx ledger.Transaction) error {
	if f.fail {
		return errors.New("ledger unavailable")
	}
	return f.Repository.Record(ctx, tx)
}

func TestRegisterGrantsWelcomeBonus(t *testing.T) {
	svc, credits := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "Ada@Example.com", Name: "Ada", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}
	if u.Role != RoleUser {
		t.Fatalf("expected role user, got %q", u.Role)
	}

	txs, err := credits.ListByUser(ctx, u.ID, "", 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected exactly one welcome transaction, got %d", len(txs))
	}
	if txs[0].Type != ledger.TypeCredit || txs[0].Amount != ledger.WelcomeBonus || txs[0].Reason != ledger.ReasonWelcomeBonus {
		t.Fatalf("unexpected welcome transaction: %+v", txs[0])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, credits := newTestService()
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "other"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	txs, err := credits.ListByUser(ctx, first.ID, "", 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("failed registration must not add transactions, got %d", len(txs))
	}
}

func TestRegisterFailedCreditLeavesNoAccount(t *testing.T) {
	credits := &flakyLedger{Repository: ledger.NewMemoryRepository(), fail: true}
	repo := NewMemoryRepository(credits)
	svc := NewService(repo, nil, logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "hunter22"}); err == nil {
		t.Fatal("expected register to fail while the ledger is down")
	}
	if _, err := repo.FindByEmail(ctx, "ada@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("failed registration must not leave a user row, got %v", err)
	}

	// Ledger recovers; the same email must register cleanly with its bonus.
	credits.fail = false
	u, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("retry register: %v", err)
	}
	txs, err := credits.ListByUser(ctx, u.ID, "", 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Reason != ledger.ReasonWelcomeBonus {
		t.Fatalf("expected exactly the welcome transaction, got %+v", txs)
	}
}

func TestCreateDuplicatePhone(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()

	if _, err := repo.Create(ctx, User{Phone: "15550001111"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, User{Phone: "15550001111"}); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "", Password: "x"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for empty email, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: ""}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for empty password, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Authenticate(ctx, "ADA@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
