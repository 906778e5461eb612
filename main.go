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

	"github.com/Adedunmol/jakpat-univ/api"
	"github.com/Adedunmol/jakpat-univ/api/admin"
	mail "github.com/Adedunmol/jakpat-univ/api/email"
	"github.com/Adedunmol/jakpat-univ/api/formimport"
	"github.com/Adedunmol/jakpat-univ/api/invoices"
	"github.com/Adedunmol/jakpat-univ/api/notifications"
	"github.com/Adedunmol/jakpat-univ/api/payments"
	"github.com/Adedunmol/jakpat-univ/api/placements"
	"github.com/Adedunmol/jakpat-univ/api/submissions"
	"github.com/Adedunmol/jakpat-univ/api/tokens"
	"github.com/Adedunmol/jakpat-univ/api/wizard"
	"github.com/Adedunmol/jakpat-univ/config"
	"github.com/Adedunmol/jakpat-univ/database"
	"github.com/Adedunmol/jakpat-univ/logger"
	"github.com/Adedunmol/jakpat-univ/queue"
	"github.com/Adedunmol/jakpat-univ/storage"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("error connecting to database: %s", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool); err != nil {
		logger.Fatalf("error running migrations: %s", err)
	}

	queries := database.New(pool)

	drafts, err := draftStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("error setting up draft store: %s", err)
	}

	q, err := queue.NewClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal(fmt.Errorf("error creating new queue client: %w", err))
	}
	defer q.Close()

	submissionStore := submissions.NewSubmissionStore(queries)
	checkout := &submissions.Checkout{Store: submissionStore, Gateway: payments.NewGateway(cfg)}
	notifier := notifications.NewNotifier(q)
	importer := formimport.NewImporter(
		formimport.NewGoogleSource(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		10*time.Minute,
	)

	var documents storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			logger.Fatalf("error connecting to minio: %s", err)
		}
		documents = minioStore
	} else {
		logger.Warnf("MINIO_ENDPOINT not set, invoices are created without a stored document")
	}

	placementStore := placements.NewPlacementStore(queries, database.NewDBTransactor(pool))

	r := api.Routes(api.Dependencies{
		Submissions:       submissionStore,
		Checkout:          checkout,
		Drafts:            drafts,
		Notifier:          notifier,
		Importer:          importer,
		PaymentServerKey:  cfg.MidtransServerKey,
		PaymentProduction: cfg.IsProduction(),
		Admin: &admin.Handler{
			Store:             submissionStore,
			Token:             tokens.NewTokenService(cfg.SecretKey, 12*time.Hour),
			AdminEmail:        cfg.AdminEmail,
			AdminPasswordHash: cfg.AdminPasswordHash,
			Notifier:          notifier,
			Queue:             q,
		},
		Invoices: &invoices.Handler{
			Store:       invoices.NewInvoiceStore(queries),
			Submissions: submissionStore,
			Documents:   documents,
			Queue:       q,
		},
		Placements: &placements.Handler{
			Store:       placementStore,
			Submissions: submissionStore,
			Queue:       q,
		},
	})

	worker, err := queue.NewServer(cfg.RedisURL, 10)
	if err != nil {
		logger.Fatal(fmt.Errorf("error creating queue server: %w", err))
	}
	mux := taskMux(ctx, cfg, submissionStore, placementStore)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           otelhttp.NewHandler(r, "jakpat-univ"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("starting web server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Errorf("error starting web server on port %s: %w", cfg.Port, err))
		}
	}()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := worker.Run(ctx, mux); err != nil {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()

	// gracefully shutdown the server after 30 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server forced to shut down: %v", err)
	}
	<-workerDone

	logger.Info("server exited properly")
}

func draftStore(ctx context.Context, cfg config.Config) (wizard.DraftRepository, error) {
	if cfg.DraftStore == "memory" {
		logger.Warnf("drafts are kept in memory and are lost on restart")
		return wizard.NewMemoryDraftStore(), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return wizard.NewRedisDraftStore(client, cfg.DraftTTL), nil
}

func taskMux(ctx context.Context, cfg config.Config, store submissions.Store, placementStore placements.Store) *asynq.ServeMux {
	sender := mail.NewSMTPSender()

	notify := &notifications.TaskHandler{Sender: sender, AdminEmail: cfg.NotificationEmail}
	if cfg.SheetsSpreadsheetID != "" {
		sheets, err := notifications.NewSheetsAppender(ctx, cfg.GoogleCredentialsFile, cfg.SheetsSpreadsheetID, cfg.SheetsRange)
		if err != nil {
			logger.Fatalf("error setting up google sheets: %s", err)
		}
		notify.Sheets = sheets
	} else {
		logger.Warnf("SHEETS_SPREADSHEET_ID not set, submissions are not appended to a sheet")
	}

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeEmailDelivery, &queue.MailHandler{Sender: sender})
	mux.Handle(notifications.TypeSubmissionNotify, notify)

	placementTasks := &placements.TaskHandler{Store: placementStore, Submissions: store}
	placementTasks.Register(mux)

	return mux
}
