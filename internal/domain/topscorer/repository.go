package topscorer

import "context"

type Repository interface {
	Upsert(ctx context.Context, s TopScorer) error
}
