package model

import "context"

// Transactor runs fn inside a database transaction carried by ctx.
// Stores called with that ctx join the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
