// Package coins mirrors the server-held coin balance and gates paid actions on it.
package coins

import (
	"context"
	"sync"

	"closet-sync/internal/mutation"
	"closet-sync/internal/syncerr"
	"go.uber.org/zap"
)

// Remote is the part of the backend the ledger talks to.
type Remote interface {
	Balance(ctx context.Context) (int, error)
	SpendCoins(ctx context.Context, amount int) (int, error)
	AddCoins(ctx context.Context, amount int) (int, error)
}

// Receipt describes the outcome of a spend. Optimistic is set when the server
// could not confirm the debit and the balance was reduced locally instead.
type Receipt struct {
	Balance    int
	Optimistic bool
}

type Ledger struct {
	remote Remote
	log    *zap.Logger

	mu      sync.RWMutex
	balance int
}

func NewLedger(remote Remote, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{remote: remote, log: log.Named("coins")}
}

func (l *Ledger) Balance() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

func (l *Ledger) CanAfford(amount int) bool {
	return l.Balance() >= amount
}

// Refresh adopts the server's balance. A failure leaves the cached value alone.
func (l *Ledger) Refresh(ctx context.Context) (int, error) {
	balance, err := l.remote.Balance(ctx)
	if err != nil {
		l.log.Warn("balance refresh failed", zap.Error(err))
		return l.Balance(), err
	}
	l.adopt(balance)
	return l.Balance(), nil
}

// Spend debits amount. An unaffordable amount is rejected without a request.
// When the debit request fails the balance is reduced locally so the paid
// feature can still proceed; the next successful read reconciles any drift.
func (l *Ledger) Spend(ctx context.Context, amount int) (Receipt, error) {
	if amount <= 0 {
		return Receipt{Balance: l.Balance()}, syncerr.Validation("spend", "amount must be positive")
	}

	var receipt Receipt
	_, err := mutation.Run(ctx, l.log, mutation.Op[int]{
		Name: "spend",
		Apply: func() error {
			if !l.CanAfford(amount) {
				return syncerr.Validation("spend", "insufficient balance")
			}
			return nil
		},
		Commit: func(ctx context.Context) (int, error) {
			return l.remote.SpendCoins(ctx, amount)
		},
		Reconcile: l.adopt,
		Rollback: mutation.Rollback{
			Name: "debitLocally",
			Fn: func(err error) error {
				l.mu.Lock()
				l.balance = clamp(l.balance - amount)
				l.mu.Unlock()
				receipt.Optimistic = true
				return nil
			},
		},
	})
	receipt.Balance = l.Balance()
	if err != nil {
		return receipt, err
	}
	if receipt.Optimistic {
		l.log.Warn("spend not confirmed, debited locally",
			zap.Int("amount", amount),
			zap.Int("balance", receipt.Balance),
		)
	}
	return receipt, nil
}

// Add credits amount. Credits are never applied optimistically: on failure
// the balance is unchanged and the error is returned.
func (l *Ledger) Add(ctx context.Context, amount int) (int, error) {
	if amount <= 0 {
		return l.Balance(), syncerr.Validation("add", "amount must be positive")
	}

	_, err := mutation.Run(ctx, l.log, mutation.Op[int]{
		Name: "add",
		Commit: func(ctx context.Context) (int, error) {
			return l.remote.AddCoins(ctx, amount)
		},
		Reconcile: l.adopt,
		Rollback:  mutation.Surface("keepBalance"),
	})
	return l.Balance(), err
}

func (l *Ledger) adopt(balance int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = clamp(balance)
}

func clamp(balance int) int {
	if balance < 0 {
		return 0
	}
	return balance
}
