package main

import (
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"showdeck/api"
	"showdeck/config"
	"showdeck/handlers"
	"showdeck/internal/database"
	"showdeck/services/accounts"
	"showdeck/services/catalog"
	"showdeck/services/library"
	"showdeck/services/sessions"
	"showdeck/utils"
)

// The repositories back the library service's store contracts.
var (
	_ library.MediaStore = (*database.MediaRepository)(nil)
	_ library.ListStore  = (*database.ListRepository)(nil)
)

func main() {
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] failed to open database: %v", err)
	}
	defer db.Close()

	accountsSvc, err := accounts.NewService(cfg.DataDir)
	if err != nil {
		log.Fatalf("[main] failed to init accounts: %v", err)
	}
	sessionsSvc, err := sessions.NewService(cfg.DataDir, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("[main] failed to init sessions: %v", err)
	}

	catalogClient := catalog.NewClient(cfg.CatalogAPIKey, nil)
	librarySvc := library.NewService(db.Media, db.Lists, catalogClient)

	authHandler := handlers.NewAuthHandler(accountsSvc, sessionsSvc)
	listsHandler := handlers.NewListsHandler(librarySvc)
	catalogHandler := handlers.NewCatalogHandler(catalogClient)

	router := utils.NewRouter()

	// credential endpoints are rate limited per IP
	loginLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), cfg.LoginRateBurst)
	public := router.PathPrefix("/api/auth").Subrouter()
	public.Use(loginLimiter.Middleware)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost, http.MethodOptions)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost, http.MethodOptions)

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(api.AccountAuthMiddleware(sessionsSvc))
	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/catalog/search", catalogHandler.Search).Methods(http.MethodGet, http.MethodOptions)
	listsHandler.Register(protected)

	log.Printf("[main] listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
