package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tutorbook/internal/domain/identity"
	"tutorbook/internal/handler/api"
	"tutorbook/internal/handler/middleware"
	"tutorbook/internal/pkg/config"
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
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	slotHandler *api.SlotHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, bookingHandler, paymentHandler, slotHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	bookingHandler *api.BookingHandler,
	paymentHandler *api.PaymentHandler,
	slotHandler *api.SlotHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/teachers/:id/slots", Handler: slotHandler.ListAvailableSlots},
			{Method: http.MethodGet, Path: "/wallet", Handler: paymentHandler.GetWallet,
				Mw: []gin.HandlerFunc{authMiddleware.RequireRole(identity.RoleTeacher)}},
		})

		bookings := apiGroup.Group("/bookings")
		{
			studentOnly := authMiddleware.RequireRole(identity.RoleStudent)
			teacherOnly := authMiddleware.RequireRole(identity.RoleTeacher)

			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking, Mw: []gin.HandlerFunc{studentOnly}},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.GetHistory},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodGet, Path: "/:id/transactions", Handler: bookingHandler.GetTransactions},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: bookingHandler.Approve, Mw: []gin.HandlerFunc{teacherOnly}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: bookingHandler.Reject, Mw: []gin.HandlerFunc{teacherOnly}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/reschedule", Handler: bookingHandler.RequestReschedule, Mw: []gin.HandlerFunc{teacherOnly}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: bookingHandler.Complete, Mw: []gin.HandlerFunc{teacherOnly}},
			})
		}

		payments := apiGroup.Group("/payments")
		{
			addRoutes(payments, []route{
				{Method: http.MethodPost, Path: "/initiate", Handler: paymentHandler.InitiatePayment,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(identity.RoleStudent)}},
				{Method: http.MethodPost, Path: "/verify", Handler: paymentHandler.VerifyPayment},
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
