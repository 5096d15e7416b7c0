package tracking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

// DefaultInterval is how often the confirmation page refreshes an order.
const DefaultInterval = 5 * time.Second

// Poller fetches an order immediately and then once per Interval until
// its context ends. Failed fetches are logged and skipped.
type Poller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) (*domain.Order, error)
	OnUpdate func(o *domain.Order)
	Logger   zerolog.Logger
}

func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	o, err := p.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.Logger.Warn().Err(err).Msg("order status poll failed")
		}
		return
	}
	if o != nil && p.OnUpdate != nil {
		p.OnUpdate(o)
	}
}
