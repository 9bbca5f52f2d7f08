package standing

import "context"

type Repository interface {
	Upsert(ctx context.Context, s Standing) error
}
