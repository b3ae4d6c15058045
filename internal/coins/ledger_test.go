package coins_test

import (
	"context"
	"errors"
	"testing"

	"closet-sync/internal/coins"
	"closet-sync/internal/syncerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	balance    int
	balanceErr error

	spendResult *int
	spendErr    error
	spendCalls  int

	addErr   error
	addCalls int
}

func (f *fakeRemote) Balance(ctx context.Context) (int, error) {
	return f.balance, f.balanceErr
}

func (f *fakeRemote) SpendCoins(ctx context.Context, amount int) (int, error) {
	f.spendCalls++
	if f.spendErr != nil {
		return 0, f.spendErr
	}
	if f.spendResult != nil {
		return *f.spendResult, nil
	}
	f.balance -= amount
	return f.balance, nil
}

func (f *fakeRemote) AddCoins(ctx context.Context, amount int) (int, error) {
	f.addCalls++
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.balance += amount
	return f.balance, nil
}

func newLedger(t *testing.T, remote *fakeRemote) *coins.Ledger {
	t.Helper()
	l := coins.NewLedger(remote, nil)
	_, err := l.Refresh(context.Background())
	require.NoError(t, err)
	return l
}

func TestSpend_ServerWins(t *testing.T) {
	eight := 8
	remote := &fakeRemote{balance: 15, spendResult: &eight}
	l := newLedger(t, remote)

	receipt, err := l.Spend(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 8, receipt.Balance)
	assert.False(t, receipt.Optimistic)
	assert.Equal(t, 8, l.Balance())
}

func TestSpend_FallbackDebitsOnce(t *testing.T) {
	remote := &fakeRemote{balance: 15, spendErr: syncerr.Network("SpendCoins", errors.New("offline"))}
	l := newLedger(t, remote)

	receipt, err := l.Spend(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, receipt.Optimistic)
	assert.Equal(t, 5, receipt.Balance)
	assert.Equal(t, 5, l.Balance())
	assert.Equal(t, 1, remote.spendCalls)
}

func TestSpend_FallbackOnServerRejection(t *testing.T) {
	remote := &fakeRemote{balance: 15, spendErr: syncerr.FromStatus("SpendCoins", 500, "boom")}
	l := newLedger(t, remote)

	receipt, err := l.Spend(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 5, receipt.Balance)
}

func TestSpend_InsufficientIsLocal(t *testing.T) {
	remote := &fakeRemote{balance: 5}
	l := newLedger(t, remote)

	_, err := l.Spend(context.Background(), 10)
	assert.ErrorIs(t, err, syncerr.ErrValidation)
	assert.Equal(t, 0, remote.spendCalls)
	assert.Equal(t, 5, l.Balance())
}

func TestSpend_NonPositiveAmount(t *testing.T) {
	l := newLedger(t, &fakeRemote{balance: 5})

	_, err := l.Spend(context.Background(), 0)
	assert.ErrorIs(t, err, syncerr.ErrValidation)
	_, err = l.Spend(context.Background(), -3)
	assert.ErrorIs(t, err, syncerr.ErrValidation)
}

func TestSpend_ExactDebitNeverNegative(t *testing.T) {
	for balance := 0; balance <= 20; balance++ {
		for amount := 1; amount <= balance; amount++ {
			l := newLedger(t, &fakeRemote{balance: balance})
			receipt, err := l.Spend(context.Background(), amount)
			require.NoError(t, err)
			assert.Equal(t, balance-amount, receipt.Balance)
			assert.GreaterOrEqual(t, l.Balance(), 0)
		}
	}
}

func TestSpend_ServerNegativeClamped(t *testing.T) {
	negative := -4
	l := newLedger(t, &fakeRemote{balance: 10, spendResult: &negative})

	receipt, err := l.Spend(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Balance)
}

func TestAdd(t *testing.T) {
	remote := &fakeRemote{balance: 5}
	l := newLedger(t, remote)

	balance, err := l.Add(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, 25, balance)
	assert.True(t, l.CanAfford(25))
	assert.False(t, l.CanAfford(26))
}

func TestAdd_FailureKeepsBalance(t *testing.T) {
	remote := &fakeRemote{balance: 5, addErr: syncerr.Network("AddCoins", errors.New("offline"))}
	l := newLedger(t, remote)

	balance, err := l.Add(context.Background(), 20)
	assert.ErrorIs(t, err, syncerr.ErrNetwork)
	assert.Equal(t, 5, balance)
	assert.Equal(t, 5, l.Balance())
}

func TestRefresh_FailureKeepsCachedValue(t *testing.T) {
	remote := &fakeRemote{balance: 12}
	l := newLedger(t, remote)

	remote.balanceErr = errors.New("offline")
	balance, err := l.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 12, balance)
}

func TestRefresh_ReconcilesDrift(t *testing.T) {
	remote := &fakeRemote{balance: 15, spendErr: errors.New("offline")}
	l := newLedger(t, remote)

	_, err := l.Spend(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 5, l.Balance())

	balance, err := l.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, balance, "server truth replaces the optimistic debit")
}
