package main

import (
	"log"
	"net/http"

	"dutytrack-backend/internal/auth"
	"dutytrack-backend/internal/config"
	"dutytrack-backend/internal/database"
	"dutytrack-backend/internal/handlers"
	"dutytrack-backend/internal/middleware"
	"dutytrack-backend/internal/services"
	"dutytrack-backend/internal/store"
	"dutytrack-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	log.Println("🚀 DUTY TRACKING SERVER STARTING")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ FATAL: configuration error: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ FATAL: database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ FATAL: database migrations failed: %v", err)
	}

	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ FATAL: user seeding failed: %v", err)
	}
	if err := database.SeedStores(db); err != nil {
		log.Fatalf("❌ FATAL: store seeding failed: %v", err)
	}

	pg := store.NewPostgres(db)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Firebase Cloud Messaging is optional: a nil service disables push.
	var fcmService *services.FCMService
	if cfg.FirebaseCredentialsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(cfg.FirebaseCredentialsBase64)
	} else {
		fcmService, err = services.NewFCMService(cfg.FirebaseCredentialsFile)
	}
	if err != nil {
		log.Printf("⚠️  Push notifications disabled: %v", err)
		fcmService = nil
	} else {
		log.Println("✅ Firebase Cloud Messaging initialized")
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/login", handlers.Login(pg, tokens))
	r.Get("/stores", handlers.SearchStores(pg))

	r.Post("/dutys/start", handlers.StartDuty(pg, pg, tokens, wsHub, fcmService))
	r.Post("/dutys/update-location", handlers.UpdateLocation(pg, wsHub))
	r.Post("/dutys/stop", handlers.StopDuty(pg, pg, tokens, wsHub, fcmService))
	r.Get("/dutys", handlers.GetDutyHistory(pg))
	r.Get("/pending", handlers.GetPendingDuties(pg))
	r.Get("/dutys/travel-path/{username}", handlers.GetTravelPath(pg))

	r.Post("/devices", handlers.RegisterDevice(pg))

	// Live duty feed for dashboards (token via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, tokens))

	// Token-protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens))
		r.Get("/dashboard", handlers.Dashboard())
	})

	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("❌ FATAL: server failed: %v", err)
	}
}
