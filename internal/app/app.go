package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/auth"
	"github.com/Amish929/Eco-Gamify-Project/internal/config"
	"github.com/Amish929/Eco-Gamify-Project/internal/database"
	"github.com/Amish929/Eco-Gamify-Project/internal/delivery/httpd"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository"
	"github.com/Amish929/Eco-Gamify-Project/internal/repository/memory"
	"github.com/Amish929/Eco-Gamify-Project/internal/service"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/evaluator"
	"github.com/Amish929/Eco-Gamify-Project/internal/service/integration"
	"github.com/Amish929/Eco-Gamify-Project/internal/validation"
)

type App struct {
	server    *http.Server
	router    http.Handler
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
	tasks     service.TaskService
}

// stores groups the durable-store implementations selected by database.driver.
type stores struct {
	tx          repository.Transactor
	accounts    repository.AccountRepository
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	pinger      httpd.Pinger
	db          *sql.DB
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	st, err := newStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(cfg, log)
	if err != nil {
		closeDB(st.db, log)
		return nil, err
	}

	labeler := newLabeler(cfg, log)
	publisher := newPublisher(cfg, log)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	ledgerService := service.NewLedgerService(st.tx, st.accounts, log)
	accountService := service.NewAccountService(st.accounts, tokens, log)
	taskService := service.NewTaskService(st.tx, st.tasks, log)
	leaderboardService := service.NewLeaderboardService(st.accounts, log)
	submissionService := service.NewSubmissionService(
		st.tx,
		st.submissions,
		st.tasks,
		st.accounts,
		blobs,
		ledgerService,
		evaluator.NewEvaluator(log),
		labeler,
		publisher,
		log,
	)

	handler := httpd.NewHandler(
		accountService,
		taskService,
		submissionService,
		leaderboardService,
		tokens,
		validation.New(),
		st.pinger,
		cfg.Server.MaxUploadSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpd.RequestLogger(log))
	router.Use(httpd.Recovery(log))
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		router:    router,
		logger:    log,
		config:    cfg,
		db:        st.db,
		publisher: publisher,
		tasks:     taskService,
	}, nil
}

func newStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Database.Driver == config.DriverMemory {
		store := memory.NewStore()
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return &stores{
			tx:          store,
			accounts:    store.Accounts(),
			tasks:       store.Tasks(),
			submissions: store.Submissions(),
			pinger:      store,
		}, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeDB(db, log)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	return &stores{
		tx:          repository.NewTransactor(db, log),
		accounts:    repository.NewAccountRepository(db, log),
		tasks:       repository.NewTaskRepository(db, log),
		submissions: repository.NewSubmissionRepository(db, log),
		pinger:      repository.NewPostgresRepository(db, log),
		db:          db,
	}, nil
}

func newBlobStore(cfg *config.Config, log zerolog.Logger) (repository.BlobStore, error) {
	if cfg.Storage.Provider == config.StorageMemory {
		return memory.NewBlobStore(cfg.Storage.PublicURL), nil
	}

	return repository.NewMinIOBlobStore(repository.MinIOConfig{
		Endpoint:       cfg.MinIO.Endpoint,
		AccessKey:      cfg.MinIO.AccessKey,
		SecretKey:      cfg.MinIO.SecretKey,
		Bucket:         cfg.MinIO.Bucket,
		Region:         cfg.MinIO.Region,
		UseSSL:         cfg.MinIO.UseSSL,
		PublicURL:      cfg.Storage.PublicURL,
		ConnectTimeout: cfg.MinIO.ConnectTimeout,
	}, log)
}

func newLabeler(cfg *config.Config, log zerolog.Logger) integration.Labeler {
	if cfg.Labeler.Provider == config.LabelerHTTP {
		return integration.NewHTTPLabeler(
			cfg.Labeler.URL,
			cfg.Labeler.Endpoint,
			cfg.Labeler.Timeout,
			cfg.Labeler.RetryCount,
			cfg.Labeler.RetryDelay,
			log,
		)
	}
	return integration.NewStubLabeler()
}

func newPublisher(cfg *config.Config, log zerolog.Logger) integration.EventPublisher {
	if !cfg.RabbitMQ.Enabled {
		return integration.NewNoopPublisher()
	}

	publisher, err := integration.NewRabbitMQPublisher(integration.RabbitMQConfig{
		URL:                 cfg.RabbitMQ.URL,
		Exchange:            cfg.RabbitMQ.Exchange,
		EvaluatedRoutingKey: cfg.RabbitMQ.EvaluatedRoutingKey,
		ReviewedRoutingKey:  cfg.RabbitMQ.ReviewedRoutingKey,
		QueueName:           cfg.RabbitMQ.QueueName,
	}, log)
	if err != nil {
		// submissions still work without the broker; events are dropped
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		return integration.NewNoopPublisher()
	}
	return publisher
}

func closeDB(db *sql.DB, log zerolog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connection")
	}
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Seed inserts the demo tasks when the task table is empty.
func (a *App) Seed(ctx context.Context) error {
	_, err := a.tasks.SeedDemoTasks(ctx)
	return err
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting eco-gamify service on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down eco-gamify service...")

	err := a.server.Shutdown(ctx)

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}

	closeDB(a.db, a.logger)

	return err
}
