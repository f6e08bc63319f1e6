package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/config"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/domain/clientfile"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/domain/identity"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/domain/outcome"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/auth"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/db"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/hipaa"
	"github.com/Yi-Jacob/mentalspace-ehr-sub007/internal/platform/middleware"
)

// requesterDirectory adapts the identity service to the outcome engine's
// IdentityDirectory interface, avoiding a direct import between the two
// domain packages.
type requesterDirectory struct {
	identity *identity.Service
}

func (d *requesterDirectory) GetRequester(ctx context.Context, userID uuid.UUID) (*outcome.Requester, error) {
	profile, err := d.identity.GetProfile(ctx, userID)
	if errors.Is(err, identity.ErrNotFound) {
		return nil, outcome.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &outcome.Requester{
		ID:           profile.User.ID,
		Roles:        profile.Roles,
		StaffProfile: profile.User.StaffProfile,
		ClientID:     profile.User.ClientID,
	}, nil
}

// devDirectory short-circuits requester resolution for the fixed identity
// DevAuthMiddleware assumes, so development mode works against an empty user
// table. Any other id falls through to the real directory.
type devDirectory struct {
	next outcome.IdentityDirectory
}

func (d *devDirectory) GetRequester(ctx context.Context, userID uuid.UUID) (*outcome.Requester, error) {
	if userID.String() == auth.DevUserID {
		return &outcome.Requester{
			ID:           userID,
			Roles:        []string{identity.RoleAdmin},
			StaffProfile: true,
		}, nil
	}
	return d.next.GetRequester(ctx, userID)
}

// fileStore adapts the clientfile service to the outcome engine's
// ClientFileStore interface.
type fileStore struct {
	files *clientfile.Service
}

func (s *fileStore) GetFileInfo(ctx context.Context, id uuid.UUID) (*outcome.ClientFileInfo, error) {
	f, err := s.files.Get(ctx, id)
	if errors.Is(err, clientfile.ErrNotFound) {
		return nil, outcome.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &outcome.ClientFileInfo{
		ID:               f.ID,
		ClientID:         f.ClientID,
		OutcomeMeasureID: f.OutcomeMeasureID,
		Status:           f.Status,
	}, nil
}

func (s *fileStore) MarkCompletedByClient(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	err := s.files.MarkCompletedByClient(ctx, id, completedAt)
	if errors.Is(err, clientfile.ErrNotFound) {
		return outcome.ErrNotFound
	}
	return err
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mentalspace-server",
		Short: "MentalSpace practice management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// PHI field encryption
	encSvc, err := hipaa.NewEncryptionService(cfg.PHIEncryptionKey, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PHI encryption")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.JWTSecret),
		}))
	}

	// Audit middleware
	e.Use(middleware.Audit(logger))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	// -- Domain wiring --

	userRepo := identity.NewUserRepo(pool, encSvc.Encryptor())
	identitySvc := identity.NewService(userRepo)
	identityHandler := identity.NewHandler(identitySvc)
	identityHandler.RegisterRoutes(apiV1)

	fileRepo := clientfile.NewRepo(pool)
	fileSvc := clientfile.NewService(fileRepo)
	fileHandler := clientfile.NewHandler(fileSvc)
	fileHandler.RegisterRoutes(apiV1)

	measureRepo := outcome.NewMeasureRepo(pool)
	responseRepo := outcome.NewResponseRepo(pool)
	var outcomeDirectory outcome.IdentityDirectory = &requesterDirectory{identity: identitySvc}
	if cfg.IsDev() {
		outcomeDirectory = &devDirectory{next: outcomeDirectory}
	}
	outcomeSvc := outcome.NewService(
		measureRepo,
		responseRepo,
		&fileStore{files: fileSvc},
		outcomeDirectory,
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		},
	)
	outcomeHandler := outcome.NewHandler(outcomeSvc)
	outcomeHandler.RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
