package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ticket-gate/internal/handler/api"
	"ticket-gate/internal/handler/middleware"
	"ticket-gate/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	availabilityHandler *api.AvailabilityHandler,
	ticketHandler *api.TicketHandler,
	paymentHandler *api.PaymentHandler,
	deliveryHandler *api.DeliveryHandler,
	scannerHandler *api.ScannerHandler,
	scannerMiddleware *middleware.ScannerMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, availabilityHandler, ticketHandler, paymentHandler, deliveryHandler, scannerHandler, scannerMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	availabilityHandler *api.AvailabilityHandler,
	ticketHandler *api.TicketHandler,
	paymentHandler *api.PaymentHandler,
	deliveryHandler *api.DeliveryHandler,
	scannerHandler *api.ScannerHandler,
	scannerMiddleware *middleware.ScannerMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		tickets := apiGroup.Group("/tickets")
		{
			addRoutes(tickets, []route{
				{Method: http.MethodGet, Path: "", Handler: ticketHandler.ListByEmail},
				{Method: http.MethodGet, Path: "/availability", Handler: availabilityHandler.Check},
				{Method: http.MethodPost, Path: "/dispatch", Handler: deliveryHandler.Dispatch},
				{Method: http.MethodGet, Path: "/:code", Handler: ticketHandler.GetByCode},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/approved", Handler: paymentHandler.Approved},
			})
		}

		scanner := apiGroup.Group("/scanner")
		{
			addRoutes(scanner, []route{
				{Method: http.MethodPost, Path: "/verify-pin", Handler: scannerHandler.VerifyPin},
			})

			scannerRequired := scanner.Group("")
			scannerRequired.Use(scannerMiddleware.RequireScanner())
			addRoutes(scannerRequired, []route{
				{Method: http.MethodPost, Path: "/redeem", Handler: scannerHandler.Redeem},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
