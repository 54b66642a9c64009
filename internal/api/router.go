package api

import (
	"github.com/finpal/finpal-be/internal/api/handlers"
	"github.com/finpal/finpal-be/internal/auth"
	"github.com/finpal/finpal-be/internal/services"
	ws "github.com/finpal/finpal-be/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Tokens         *auth.TokenManager
	UserService    services.UserServiceProvider
	ExpenseService services.ExpenseServiceProvider
	ReceiptParser  handlers.ReceiptParser
	Hub            *ws.Hub
	AllowedOrigin  string
	UploadDir      string
	MaxUploadSize  int64
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.UserService, deps.Tokens)
	expenseHandler := handlers.NewExpenseHandler(deps.ExpenseService)
	receiptHandler := handlers.NewReceiptHandler(deps.ReceiptParser, deps.UploadDir, deps.MaxUploadSize)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)

	requireAuth := deps.Tokens.Middleware(deps.UserService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Get("/me", authHandler.GetMe)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", expenseHandler.List)
			r.Post("/", expenseHandler.Create)
			r.Get("/categories", expenseHandler.Categories)
			r.Get("/chat-context", expenseHandler.ChatContext)
			r.Post("/upload-receipt", receiptHandler.Upload)
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", expenseHandler.Update)
				r.Delete("/", expenseHandler.Delete)
			})
		})

		// Live expense event feed for the dashboard
		r.With(requireAuth).Get("/ws", wsHandler.Serve)
	})

	return r
}
