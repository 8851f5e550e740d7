package sweep

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
)

type OrderSweeper interface {
	SweepConfirmations(ctx context.Context, limit int32) (int, error)
}

type MatchSweeper interface {
	RepairUnstarted(ctx context.Context, limit int32) (int, error)
	SweepRounds(ctx context.Context, limit int32) (int, error)
}
