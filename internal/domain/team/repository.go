package team

import "context"

type Repository interface {
	Upsert(ctx context.Context, t Team) error
}
