package config

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultEnvFile                = ".env"
	defaultPort                   = "8080"
	defaultEnvironment            = "local"
	defaultReadHeaderTimeout      = 10 * time.Second
	defaultReadTimeout            = 15 * time.Second
	defaultWriteTimeout           = 15 * time.Second
	defaultIdleTimeout            = 60 * time.Second
	defaultShutdownTimeout        = 10 * time.Second
	defaultCarouselInterval       = 6 * time.Second
	defaultCarouselPageSize       = 3
	defaultBannerDuration         = 4 * time.Second
	defaultInvestorBannerDuration = 6 * time.Second
	defaultViewIdleTTL            = 30 * time.Minute
	defaultViewSweepInterval      = time.Minute
	defaultSiteName               = "Nexora"
	defaultSiteTitle              = "Bulk Business | Global Wholesale & Procurement"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Environment string
	DevMode     bool
	Server      ServerConfig
	Firebase    FirebaseConfig
	Firestore   FirestoreConfig
	PubSub      PubSubConfig
	Session     SessionConfig
	Site        SiteConfig
	UI          UIConfig
	Analytics   AnalyticsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// FirebaseConfig stores Firebase project settings.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// FirestoreConfig stores database parameters. An empty ProjectID selects the in-memory store.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// PubSubConfig names the topic receiving submission notifications. Empty disables publishing.
type PubSubConfig struct {
	ProjectID string
	Topic     string
}

// SessionConfig controls the signed visitor cookie.
type SessionConfig struct {
	SigningKey   string
	SecureCookie bool
}

// SiteConfig holds branding and canonical URL data surfaced to templates.
type SiteConfig struct {
	Name    string
	Title   string
	BaseURL string
}

// UIConfig tunes the timed behaviour of interactive views.
type UIConfig struct {
	CarouselInterval       time.Duration
	CarouselPageSize       int
	BannerDuration         time.Duration
	InvestorBannerDuration time.Duration
	ViewIdleTTL            time.Duration
	ViewSweepInterval      time.Duration
}

// AnalyticsConfig holds client instrumentation identifiers.
type AnalyticsConfig struct {
	GA4MeasurementID string `env:"NEXORA_WEB_GA_MEASUREMENT_ID"`
	GTMContainerID   string `env:"NEXORA_WEB_GTM_CONTAINER_ID"`
	Debug            bool   `env:"NEXORA_WEB_ANALYTICS_DEBUG" envDefault:"false"`
}

// Enabled reports whether any analytics integration is configured.
func (a AnalyticsConfig) Enabled() bool {
	return a.GA4MeasurementID != "" || a.GTMContainerID != ""
}

// SecretResolver resolves references to external secrets (e.g. Secret Manager URIs).
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// SecretError describes failures while resolving a secret reference.
type SecretError struct {
	Ref string
	Err error
}

// Error implements the error interface.
func (e *SecretError) Error() string {
	return fmt.Sprintf("secret resolution failed for ref %q: %v", e.Ref, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SecretError) Unwrap() error { return e.Err }

var errSecretResolverNotConfigured = errors.New("secret resolver not configured")

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
	secret       SecretResolver
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map. Values in the map take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// WithSecretResolver sets the resolver used for secret:// and sm:// references.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) {
		o.secret = resolver
	}
}

// EnvironmentValues returns the effective key/value map after applying the same precedence
// rules as Load (dotenv < OS env < explicit env map). Callers use it to build the secret
// fetcher before invoking Load.
func EnvironmentValues(opts ...Option) (map[string]string, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return mergedValues(options)
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables, and optional secret manager lookups.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	values, err := mergedValues(options)
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}

	port := stringWithDefault(lookup, "NEXORA_WEB_PORT", "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}
	environment := strings.ToLower(stringWithDefault(lookup, "NEXORA_WEB_ENV", defaultEnvironment))

	cfg := Config{
		Environment: environment,
		DevMode:     boolWithDefault(lookup, "NEXORA_WEB_DEV", false),
		Server: ServerConfig{
			Port:              port,
			ReadHeaderTimeout: durationWithDefault(lookup, "NEXORA_WEB_READ_HEADER_TIMEOUT", defaultReadHeaderTimeout),
			ReadTimeout:       durationWithDefault(lookup, "NEXORA_WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, "NEXORA_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "NEXORA_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout:   durationWithDefault(lookup, "NEXORA_WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Firebase: FirebaseConfig{
			ProjectID:       stringWithDefault(lookup, "NEXORA_WEB_FIREBASE_PROJECT_ID", ""),
			CredentialsFile: stringWithDefault(lookup, "NEXORA_WEB_FIREBASE_CREDENTIALS_FILE", ""),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "NEXORA_WEB_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "NEXORA_WEB_FIRESTORE_EMULATOR_HOST", ""),
		},
		PubSub: PubSubConfig{
			ProjectID: stringWithDefault(lookup, "NEXORA_WEB_PUBSUB_PROJECT_ID", ""),
			Topic:     stringWithDefault(lookup, "NEXORA_WEB_PUBSUB_TOPIC", ""),
		},
		Session: SessionConfig{
			SigningKey:   stringWithDefault(lookup, "NEXORA_WEB_SESSION_SIGNING_KEY", ""),
			SecureCookie: environment == "prod",
		},
		Site: SiteConfig{
			Name:    stringWithDefault(lookup, "NEXORA_WEB_SITE_NAME", defaultSiteName),
			Title:   stringWithDefault(lookup, "NEXORA_WEB_SITE_TITLE", defaultSiteTitle),
			BaseURL: strings.TrimRight(stringWithDefault(lookup, "NEXORA_WEB_SITE_BASE_URL", ""), "/"),
		},
		UI: UIConfig{
			CarouselInterval:       durationWithDefault(lookup, "NEXORA_WEB_CAROUSEL_INTERVAL", defaultCarouselInterval),
			CarouselPageSize:       intWithDefault(lookup, "NEXORA_WEB_CAROUSEL_PAGE_SIZE", defaultCarouselPageSize),
			BannerDuration:         durationWithDefault(lookup, "NEXORA_WEB_BANNER_DURATION", defaultBannerDuration),
			InvestorBannerDuration: durationWithDefault(lookup, "NEXORA_WEB_INVESTOR_BANNER_DURATION", defaultInvestorBannerDuration),
			ViewIdleTTL:            durationWithDefault(lookup, "NEXORA_WEB_VIEW_IDLE_TTL", defaultViewIdleTTL),
			ViewSweepInterval:      durationWithDefault(lookup, "NEXORA_WEB_VIEW_SWEEP_INTERVAL", defaultViewSweepInterval),
		},
	}

	if err := env.ParseWithOptions(&cfg.Analytics, env.Options{Environment: values}); err != nil {
		return Config{}, fmt.Errorf("config: parse analytics: %w", err)
	}

	// Firestore and Pub/Sub default to the Firebase project when unspecified.
	if cfg.Firestore.ProjectID == "" {
		cfg.Firestore.ProjectID = cfg.Firebase.ProjectID
	}
	if cfg.PubSub.ProjectID == "" {
		cfg.PubSub.ProjectID = cfg.Firestore.ProjectID
	}

	resolved, err := resolveSecret(ctx, cfg.Session.SigningKey, options.secret)
	if err != nil {
		return Config{}, err
	}
	cfg.Session.SigningKey = resolved

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaultOptions() loaderOptions {
	return loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
		secret: SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
			return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
		}),
	}
}

func mergedValues(options loaderOptions) (map[string]string, error) {
	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	merge := func(source map[string]string) {
		for key, value := range source {
			values[key] = value
		}
	}

	merge(dotEnvValues)
	if options.useSystemEnv {
		for _, entry := range os.Environ() {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || strings.TrimSpace(key) == "" {
				continue
			}
			values[strings.TrimSpace(key)] = value
		}
	}
	merge(options.envMap)
	return values, nil
}

func resolveSecret(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	if value == "" || !isSecretReference(value) {
		return value, nil
	}
	normalized := normalizeSecretReference(value)
	if resolver == nil {
		return "", &SecretError{Ref: normalized, Err: errSecretResolverNotConfigured}
	}
	secret, err := resolver.ResolveSecret(ctx, normalized)
	if err != nil {
		return "", &SecretError{Ref: normalized, Err: err}
	}
	return strings.TrimSpace(secret), nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if cfg.Environment == "prod" && cfg.Session.SigningKey == "" {
		missing = append(missing, "Session.SigningKey")
	}
	if cfg.Firestore.EmulatorHost != "" && cfg.Firestore.ProjectID == "" {
		missing = append(missing, "Firestore.ProjectID")
	}
	if cfg.PubSub.Topic != "" && cfg.PubSub.ProjectID == "" {
		missing = append(missing, "PubSub.ProjectID")
	}
	if cfg.UI.CarouselInterval <= 0 {
		missing = append(missing, "UI.CarouselInterval")
	}
	if cfg.UI.CarouselPageSize <= 0 {
		missing = append(missing, "UI.CarouselPageSize")
	}
	if cfg.UI.BannerDuration <= 0 {
		missing = append(missing, "UI.BannerDuration")
	}
	if cfg.UI.InvestorBannerDuration <= 0 {
		missing = append(missing, "UI.InvestorBannerDuration")
	}
	if cfg.UI.ViewIdleTTL <= 0 {
		missing = append(missing, "UI.ViewIdleTTL")
	}
	if cfg.UI.ViewSweepInterval <= 0 {
		missing = append(missing, "UI.ViewSweepInterval")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func isSecretReference(value string) bool {
	trimmed := strings.TrimSpace(value)
	return strings.HasPrefix(trimmed, "secret://") || strings.HasPrefix(trimmed, "sm://")
}

func normalizeSecretReference(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "sm://") {
		return "secret://" + strings.TrimPrefix(trimmed, "sm://")
	}
	return trimmed
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
