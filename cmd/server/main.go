// Command server runs the movers portal API: the back office (shipments,
// documents, stop events) and the public tracking and site endpoints.
//
// @title                      Movers Portal API
// @version                    1.0
// @description                Back office and public tracking API for a packers and movers company.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/swiftcargo/movers-portal/internal/api"
	"github.com/swiftcargo/movers-portal/internal/api/handler"
	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/service"
	"github.com/swiftcargo/movers-portal/internal/infrastructure/config"
	"github.com/swiftcargo/movers-portal/internal/infrastructure/content"
	mongodb "github.com/swiftcargo/movers-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/swiftcargo/movers-portal/internal/infrastructure/db/redis"
	"github.com/swiftcargo/movers-portal/internal/infrastructure/docgen"
	"github.com/swiftcargo/movers-portal/internal/infrastructure/queue"
	"github.com/swiftcargo/movers-portal/pkg/logger"
)

const pingTimeout = 2 * time.Second

type flags struct {
	siteContent   string
	templates     string
	ensureIndexes bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	set := pflag.NewFlagSet("server", pflag.ContinueOnError)
	set.StringVar(&f.siteContent, "site-content", "", "site content YAML file (overrides SITE_CONTENT_PATH)")
	set.StringVar(&f.templates, "templates", "", "directory holding <kind>.docx templates (overrides TEMPLATES_DIR)")
	set.BoolVar(&f.ensureIndexes, "ensure-indexes", true, "create MongoDB indexes on startup")
	if err := set.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if f.siteContent != "" {
		cfg.Documents.SiteContentPath = f.siteContent
	}
	if f.templates != "" {
		cfg.Documents.TemplatesDir = f.templates
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "movers-portal",
		Env:     cfg.Env,
	})

	if cfg.Auth.DevSecret {
		log.Warn().Msg("JWT_SECRET not set; signing tokens with the development secret")
	}

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	shipmentRepo := mongodb.NewShipmentRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	authRepo := mongodb.NewAuthRepository(db)
	seqRepo := mongodb.NewSequenceRepository(db)
	billRepo := mongodb.NewDocumentRepository[domain.Bill](db)
	biltyRepo := mongodb.NewDocumentRepository[domain.Bilty](db)
	quotationRepo := mongodb.NewDocumentRepository[domain.Quotation](db)
	receiptRepo := mongodb.NewDocumentRepository[domain.Receipt](db)

	if f.ensureIndexes {
		if err := mongodb.EnsureIndexes(ctx,
			shipmentRepo, eventRepo, authRepo,
			billRepo, biltyRepo, quotationRepo, receiptRepo,
		); err != nil {
			return err
		}
		log.Info().Msg("mongo indexes ensured")
	}

	// --- Services ---
	authService := service.NewAuthService(authRepo, redisdb.NewTokenStore(rdb),
		cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log.With().Str("component", "auth").Logger())
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	shipmentService := service.NewShipmentService(shipmentRepo, log.With().Str("component", "shipments").Logger())
	eventService := service.NewEventService(shipmentRepo, eventRepo, redisdb.NewDedupChecker(rdb),
		log.With().Str("component", "events").Logger())

	templates := docgen.NewDirTemplateStore(cfg.Documents.TemplatesDir)
	if missing := templates.Missing(domain.KindBill, domain.KindBilty, domain.KindQuotation, domain.KindReceipt); len(missing) > 0 {
		log.Warn().Str("dir", cfg.Documents.TemplatesDir).Interface("kinds", missing).Msg("document templates missing; downloads will fail")
	}
	renderer := docgen.NewDocxRenderer()
	docLog := log.With().Str("component", "documents").Logger()

	siteContent, err := loadContent(cfg.Documents.SiteContentPath, log)
	if err != nil {
		return err
	}
	go reloadOnHangup(ctx, siteContent, log)

	// --- Stop event workers ---
	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, eventService, log.With().Str("component", "dispatcher").Logger())
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Deps{
		Logger:     log,
		Auth:       authService,
		Shipments:  shipmentService,
		Bills:      service.NewDocumentService[domain.Bill](billRepo, seqRepo, templates, renderer, docLog),
		Bilties:    service.NewDocumentService[domain.Bilty](biltyRepo, seqRepo, templates, renderer, docLog),
		Quotations: service.NewDocumentService[domain.Quotation](quotationRepo, seqRepo, templates, renderer, docLog),
		Receipts:   service.NewDocumentService[domain.Receipt](receiptRepo, seqRepo, templates, renderer, docLog),
		Events:     dispatcher,
		Content:    siteContent,
		Health: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, pingTimeout) },
		},
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		dispatcher.Close()
		dispatcher.Wait()
		stopWorkers()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Events accepted before shutdown are still applied.
	dispatcher.Close()
	dispatcher.Wait()
	stopWorkers()
	log.Info().Msg("server stopped")
	return nil
}

// loadContent reads the site content file. A missing file leaves the public
// site empty instead of failing startup.
func loadContent(path string, log zerolog.Logger) (*content.Store, error) {
	store, err := content.NewStore(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("site content file not found; serving empty content")
		return content.NewStore("")
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func reloadOnHangup(ctx context.Context, store *content.Store, log zerolog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := store.Reload(); err != nil {
				log.Error().Err(err).Msg("site content reload failed; keeping previous content")
				continue
			}
			log.Info().Msg("site content reloaded")
		}
	}
}
