// AngelaMos | 2026
// store.go

package payment

import (
	"context"

	"github.com/WhoisDhiya/Recruitments-sub000/internal/core"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/pending"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/recruiter"
	"github.com/WhoisDhiya/Recruitments-sub000/internal/user"
)

// Stores groups the repositories an activation touches.
type Stores struct {
	Pending    pending.Repository
	Users      user.Repository
	Recruiters recruiter.Repository
}

// UnitOfWork runs fn against stores that share one transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(st Stores) error) error
}

type txUnitOfWork struct {
	tx core.TxRunner
}

func NewUnitOfWork(tx core.TxRunner) UnitOfWork {
	return &txUnitOfWork{tx: tx}
}

func (u *txUnitOfWork) Do(ctx context.Context, fn func(st Stores) error) error {
	return u.tx.InTx(ctx, func(tx core.DBTX) error {
		return fn(Stores{
			Pending:    pending.NewRepository(tx),
			Users:      user.NewRepository(tx),
			Recruiters: recruiter.NewRepository(tx),
		})
	})
}

type directUnitOfWork struct {
	stores Stores
}

func (u directUnitOfWork) Do(_ context.Context, fn func(st Stores) error) error {
	return fn(u.stores)
}
