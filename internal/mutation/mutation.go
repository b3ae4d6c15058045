// Package mutation runs optimistic state changes in three phases: apply the
// local change, commit it remotely, then reconcile with the server's answer or
// run the operation's named rollback.
package mutation

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Rollback is the failure policy of one operation kind. Fn receives the
// commit error and returns the error to surface, or nil when the failure is
// absorbed locally.
type Rollback struct {
	Name string
	Fn   func(err error) error
}

// Op describes one optimistic mutation. Apply and Reconcile are optional.
type Op[R any] struct {
	Name      string
	Apply     func() error
	Commit    func(ctx context.Context) (R, error)
	Reconcile func(R)
	Rollback  Rollback
}

// Run executes op. A failing Apply aborts before any remote call.
func Run[R any](ctx context.Context, log *zap.Logger, op Op[R]) (R, error) {
	var zero R
	if op.Commit == nil {
		return zero, fmt.Errorf("mutation %s has no commit phase", op.Name)
	}
	if log == nil {
		log = zap.NewNop()
	}

	if op.Apply != nil {
		if err := op.Apply(); err != nil {
			return zero, err
		}
	}

	result, err := op.Commit(ctx)
	if err != nil {
		log.Warn("mutation commit failed",
			zap.String("op", op.Name),
			zap.String("rollback", op.Rollback.Name),
			zap.Error(err),
		)
		if op.Rollback.Fn == nil {
			return zero, err
		}
		return zero, op.Rollback.Fn(err)
	}

	if op.Reconcile != nil {
		op.Reconcile(result)
	}
	log.Debug("mutation committed", zap.String("op", op.Name))
	return result, nil
}

// Surface is a rollback that keeps local state and returns the commit error.
func Surface(name string) Rollback {
	return Rollback{Name: name, Fn: func(err error) error { return err }}
}
