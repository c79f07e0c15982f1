package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mhasan/chatwave/internal/api/handlers"
	"github.com/mhasan/chatwave/internal/api/middleware"
	"github.com/mhasan/chatwave/internal/config"
	"github.com/mhasan/chatwave/internal/realtime"
	"github.com/mhasan/chatwave/internal/repository"
	"github.com/mhasan/chatwave/internal/service"
)

func NewRouter(services *service.Services, registry *realtime.Registry, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(middleware.Recover(cfg))
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Unknown routes get the same JSON error shape as everything else.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"message": fmt.Sprintf("URL:%s NOT FOUND!", r.URL.Path),
		})
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	userHandler := handlers.NewUserHandler(services.User)
	chatHandler := handlers.NewChatHandler(services.Chat, cfg)
	wsHandler := handlers.NewWebSocketHandler(registry, services.Auth, repos.Connection)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// Protected user routes
		r.Route("/user", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Get("/current", userHandler.Current)
			r.Post("/update-profile", userHandler.UpdateProfile)
			r.Post("/logout", userHandler.Logout)
		})

		// Protected chat routes
		r.Route("/chats", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Get("/all-chat-list", chatHandler.AllChatList)
			r.Get("/all-contact-list", chatHandler.AllContactList)
			r.Get("/all-conversations/{receiverId}", chatHandler.AllConversations)
			r.Post("/new-message", chatHandler.NewMessage)
		})

		// Realtime channel; authenticates via the token cookie during the
		// handshake, not the bearer middleware.
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
