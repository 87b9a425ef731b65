package components

import (
	"ticket-gate/internal/handler"
	"ticket-gate/internal/handler/api"
	"ticket-gate/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewTicketHandler,
		api.NewPaymentHandler,
		api.NewDeliveryHandler,
		api.NewScannerHandler,
		middleware.NewScannerMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
