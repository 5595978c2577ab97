package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dkovac/chatter/internal/config"
	"github.com/dkovac/chatter/internal/database"
	"github.com/dkovac/chatter/internal/presence"
	postgresrepo "github.com/dkovac/chatter/internal/repository/postgres"
	"github.com/dkovac/chatter/internal/service"
	"github.com/dkovac/chatter/internal/transport/http/handlers"
	"github.com/dkovac/chatter/internal/transport/http/middleware"
	"github.com/dkovac/chatter/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	// Database
	pool, err := database.Connect(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)

	// Presence registry, owned by the gateway for the process lifetime
	registry := presence.NewRegistry()

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(messageRepo, registry, cfg.PersistPolicy)
	defer chatService.Close()
	attachmentService, err := service.NewAttachmentService(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	// WebSocket gateway
	hub := ws.NewHub(registry)
	hub.SetChatService(chatService)
	chatService.SetNotifier(ws.NewHubNotifier(hub))
	go hub.Run()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	messageHandler := handlers.NewMessageHandler(chatService)
	uploadHandler := handlers.NewUploadHandler(attachmentService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub))

	// Stored attachments; URLs returned by the upload endpoint resolve here
	mux.Handle("GET /attachments/", http.StripPrefix("/attachments/", http.FileServer(http.Dir(attachmentService.Dir()))))

	// Protected
	mux.Handle("GET /api/messages", auth(http.HandlerFunc(messageHandler.History)))
	mux.Handle("POST /api/upload-attachment", auth(http.HandlerFunc(uploadHandler.UploadAttachment)))

	// Protected - admin
	mux.Handle("GET /api/users", auth(middleware.RequireAdmin(http.HandlerFunc(userHandler.List))))
	mux.Handle("POST /api/users", auth(middleware.RequireAdmin(http.HandlerFunc(userHandler.Create))))
	mux.Handle("DELETE /api/users/{id}", auth(middleware.RequireAdmin(http.HandlerFunc(userHandler.Delete))))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
