package exchange

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/service"
	"github.com/fsdevblog/groph-duel/internal/transport/exchange/client"
)

type Client interface {
	TicketStatus(ctx context.Context, code string) (*client.Response, error)
}

type Servicer interface {
	TicketsForMonitoring(ctx context.Context, limit uint) ([]domain.DepositTicket, error)
	ResolveTickets(ctx context.Context, updates []service.ResolveTicketArgs) error
}
