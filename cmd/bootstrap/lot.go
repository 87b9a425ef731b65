package bootstrap

import (
	"time"

	"ticket-gate/internal/domain/lot"
	"ticket-gate/internal/pkg/clock"
	"ticket-gate/internal/pkg/config"

	"go.uber.org/fx"
)

var LotModule = fx.Module("lot",
	fx.Provide(
		NewLotConfig,
		NewClock,
	),
)

func NewLotConfig(cfg config.Config) lot.Config {
	maxPerCategory := make(map[string]int, len(cfg.Tickets.Categories))
	for category, maxCount := range cfg.Tickets.Categories {
		maxPerCategory[category] = maxCount
	}

	return lot.Config{
		Enabled:         cfg.Tickets.LotEnabled,
		OverallCapacity: cfg.Tickets.OverallCapacity,
		MaxPerCategory:  maxPerCategory,
	}
}

// NewClock stamps issuance and redemption times in the event's timezone.
func NewClock(cfg config.Config) (clock.Clock, error) {
	loc, err := time.LoadLocation(cfg.Tickets.TimeZone)
	if err != nil {
		return nil, err
	}
	return clock.NewRealClock(loc), nil
}
