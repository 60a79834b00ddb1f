package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	firebase "firebase.google.com/go/v4"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/chhitz007/nexora-page/internal/clock"
	"github.com/chhitz007/nexora-page/internal/config"
	"github.com/chhitz007/nexora-page/internal/content"
	pfirestore "github.com/chhitz007/nexora-page/internal/firestore"
	"github.com/chhitz007/nexora-page/internal/forms"
	"github.com/chhitz007/nexora-page/internal/handlers"
	"github.com/chhitz007/nexora-page/internal/httpserver"
	"github.com/chhitz007/nexora-page/internal/observability"
	"github.com/chhitz007/nexora-page/internal/secrets"
	"github.com/chhitz007/nexora-page/internal/views"
	"github.com/chhitz007/nexora-page/internal/viewstate"
)

const meterName = "github.com/chhitz007/nexora-page"

func main() {
	var (
		addr    string
		envFile string
	)
	flag.StringVar(&addr, "addr", "", "HTTP listen address (defaults to :$NEXORA_WEB_PORT, then :$PORT, then :8080)")
	flag.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flag.Parse()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithLogger(ctx, logger)

	if err := run(ctx, logger, addr, envFile); err != nil {
		logger.Error("server exited", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, addr, envFile string) error {
	envValues, err := config.EnvironmentValues(config.WithEnvFile(envFile))
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		return fmt.Errorf("secret fetcher: %w", err)
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithEnvFile(envFile),
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
	)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			logger.Error("invalid configuration", zap.Strings("fields", verr.Fields()))
		}
		return fmt.Errorf("load configuration: %w", err)
	}

	site, err := content.Load()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	store, closeStore, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier, closeNotifier, err := newNotifier(ctx, cfg.PubSub, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	submitterOpts := []forms.SubmitterOption{
		forms.WithLogger(logger.Named("forms")),
		forms.WithMeter(otel.GetMeterProvider().Meter(meterName)),
	}
	if notifier != nil {
		submitterOpts = append(submitterOpts, forms.WithNotifier(notifier))
	}
	submitter, err := forms.NewSubmitter(store, submitterOpts...)
	if err != nil {
		return fmt.Errorf("submitter: %w", err)
	}

	if cfg.Analytics.Enabled() {
		logger.Info("analytics tags enabled",
			zap.String("ga_measurement_id", cfg.Analytics.GA4MeasurementID),
			zap.String("gtm_container_id", cfg.Analytics.GTMContainerID),
			zap.Bool("debug", cfg.Analytics.Debug))
	}

	registry := viewstate.NewRegistry(site,
		viewstate.WithLogger(logger.Named("views")),
		viewstate.WithCarouselInterval(cfg.UI.CarouselInterval),
		viewstate.WithPageSize(cfg.UI.CarouselPageSize),
		viewstate.WithIdleTTL(cfg.UI.ViewIdleTTL),
		viewstate.WithSweepInterval(cfg.UI.ViewSweepInterval),
	)
	registry.StartJanitor()
	defer registry.Close()

	h, err := handlers.New(handlers.Dependencies{
		Registry:  registry,
		Submitter: submitter,
		Site: handlers.SiteInfo{
			Name:    cfg.Site.Name,
			Title:   cfg.Site.Title,
			BaseURL: cfg.Site.BaseURL,
			Socials: socialLinks(site),
		},
		Analytics: views.Analytics{
			GAMeasurementID: cfg.Analytics.GA4MeasurementID,
			GTMContainerID:  cfg.Analytics.GTMContainerID,
			Debug:           cfg.Analytics.Debug,
		},
		BannerDuration:         cfg.UI.BannerDuration,
		InvestorBannerDuration: cfg.UI.InvestorBannerDuration,
		Clock:                  clock.Real(),
	})
	if err != nil {
		return fmt.Errorf("handlers: %w", err)
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:           listenAddress(addr, cfg.Server.Port),
		Handlers:          h,
		Logger:            logger,
		ProjectID:         cfg.Firebase.ProjectID,
		SessionSigningKey: []byte(cfg.Session.SigningKey),
		SecureCookies:     cfg.Session.SecureCookie,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func listenAddress(flagAddr, port string) string {
	if strings.TrimSpace(flagAddr) != "" {
		return flagAddr
	}
	if port == "" {
		port = "8080"
	}
	return ":" + port
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		return strings.TrimSpace(env[key])
	}
	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithMeter(otel.GetMeterProvider().Meter(meterName)),
	}
	if path := lookup("NEXORA_WEB_SECRET_FALLBACK_FILE"); path != "" {
		opts = append(opts, secrets.WithFallbackFile(path))
	}
	project := lookup("NEXORA_WEB_FIREBASE_PROJECT_ID")
	if project == "" {
		opts = append(opts, secrets.WithOffline())
	} else {
		opts = append(opts, secrets.WithProject(project))
	}
	if creds := lookup("NEXORA_WEB_FIREBASE_CREDENTIALS_FILE"); creds != "" {
		opts = append(opts, secrets.WithClientOptions(option.WithCredentialsFile(creds)))
	}
	return secrets.NewFetcher(ctx, opts...)
}

// newStore picks Firestore when a project is configured and an in-memory store otherwise.
func newStore(cfg config.Config, logger *zap.Logger) (forms.Store, func(), error) {
	if cfg.Firestore.ProjectID == "" {
		logger.Warn("no firestore project configured; submissions are kept in memory")
		return forms.NewMemoryStore(clock.Real()), func() {}, nil
	}
	provider := pfirestore.NewProvider(cfg.Firestore,
		pfirestore.WithClientFactory(firebaseClientFactory(cfg.Firebase)),
	)
	store, err := forms.NewFirestoreStore(provider)
	if err != nil {
		return nil, nil, fmt.Errorf("firestore store: %w", err)
	}
	closeFn := func() {
		if err := provider.Close(); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}
	return store, closeFn, nil
}

// firebaseClientFactory builds Firestore clients through the Firebase Admin SDK so the
// app shares its credentials.
func firebaseClientFactory(cfg config.FirebaseConfig) pfirestore.ClientFactory {
	return func(ctx context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
		if err != nil {
			return nil, fmt.Errorf("firebase app: %w", err)
		}
		return app.Firestore(ctx)
	}
}

func newNotifier(ctx context.Context, cfg config.PubSubConfig, logger *zap.Logger) (forms.Notifier, func(), error) {
	if cfg.Topic == "" || cfg.ProjectID == "" {
		return nil, func() {}, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("pubsub client: %w", err)
	}
	topic := client.Topic(cfg.Topic)
	notifier, err := forms.NewPubSubNotifier(topic, forms.WithNotifierLogger(logger.Named("notifier")))
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	closeFn := func() {
		notifier.Wait()
		topic.Stop()
		if err := client.Close(); err != nil {
			logger.Warn("pubsub close error", zap.Error(err))
		}
	}
	return notifier, closeFn, nil
}

func socialLinks(site *content.Site) []string {
	out := make([]string, 0, len(site.Footer.Socials))
	for _, l := range site.Footer.Socials {
		if strings.HasPrefix(l.Href, "http") {
			out = append(out, l.Href)
		}
	}
	return out
}
