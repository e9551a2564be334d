package directory

import "context"

type Repository interface {
	PutOwner(ctx context.Context, o Owner) error
	GetOwner(ctx context.Context, id string) (Owner, error)
	PutAccount(ctx context.Context, a Account) error
	GetAccount(ctx context.Context, id string) (Account, error)
}
