package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkowalski/homelibrary/internal/auth"
	"github.com/mkowalski/homelibrary/internal/config"
	"github.com/mkowalski/homelibrary/internal/database"
	"github.com/mkowalski/homelibrary/internal/database/authors"
	"github.com/mkowalski/homelibrary/internal/database/books"
	"github.com/mkowalski/homelibrary/internal/database/borrowings"
	"github.com/mkowalski/homelibrary/internal/database/users"
	http_controllers "github.com/mkowalski/homelibrary/internal/http"
	"github.com/mkowalski/homelibrary/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it within the
// configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the whole service together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting homelibrary v%s", version)

	if cfg.Auth.JWTSecret == "" {
		// Tokens issued against a generated secret die with the process.
		secret, err := generateSecret()
		if err != nil {
			log.Fatalf("Failed to generate JWT secret: %v", err)
		}
		cfg.Auth.JWTSecret = secret
		log.Printf("WARNING: JWT_SECRET is not set; generated an ephemeral secret. Sessions will not survive restarts.")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	usersRepo := users.NewRepository(db.DB)
	authorsRepo := authors.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)
	borrowingsRepo := borrowings.NewRepository(db.DB)

	authService := auth.NewService(usersRepo, cfg.Auth)

	auditor := scheduler.NewConsistencyAuditor(db.DB, cfg.Consistency)
	if err := auditor.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start consistency audit: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		BorrowingStore: borrowingsRepo,
		BookStore:      booksRepo,
		AuthorStore:    authorsRepo,
		ProfileStore:   usersRepo,
		Version:        version,
		Debug:          cfg.Global.Debug,
	})

	Serve(router, cfg, func(ctx context.Context) {
		auditor.Stop()
	})
}

func generateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
