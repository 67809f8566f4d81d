// Package app provides the dependency injection container assembling the
// field encryption engine and its operational surface.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/secrets"

	"github.com/shipdocs/employee-onboarding-sub012/internal/config"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/domain"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/keystore"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/service"
	"github.com/shipdocs/employee-onboarding-sub012/internal/encryption/usecase"
	"github.com/shipdocs/employee-onboarding-sub012/internal/http"
	"github.com/shipdocs/employee-onboarding-sub012/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	keeper          *secrets.Keeper
	keyStore        keystore.Store
	metricsProvider *metrics.Provider

	// Services
	keyManager *service.KeyManagerService
	cache      service.ResultCache

	// Use Cases
	fieldEncryption usecase.FieldEncryptionUseCase

	// Servers
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	keeperInit          sync.Once
	keyStoreInit        sync.Once
	keyManagerInit      sync.Once
	cacheInit           sync.Once
	fieldEncryptionInit sync.Once
	metricsProviderInit sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Keeper returns the KMS keeper wrapping key material at rest, or nil when no
// KMS key URI is configured.
func (c *Container) Keeper(ctx context.Context) (*secrets.Keeper, error) {
	c.keeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			return
		}
		keeper, err := keystore.OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["keeper"] = fmt.Errorf("failed to open KMS keeper: %w", err)
			return
		}
		c.keeper = keeper
	})
	if storedErr, exists := c.initErrors["keeper"]; exists {
		return nil, storedErr
	}
	return c.keeper, nil
}

// KeyStore returns the key version store. A file-backed store is used when a
// key store path is configured, otherwise keys live only in memory.
func (c *Container) KeyStore(ctx context.Context) (keystore.Store, error) {
	c.keyStoreInit.Do(func() {
		if c.config.KeyStorePath == "" {
			c.keyStore = keystore.NewMemoryStore()
			return
		}

		keeper, err := c.Keeper(ctx)
		if err != nil {
			c.initErrors["keyStore"] = err
			return
		}

		store, err := keystore.NewFileStore(c.config.KeyStorePath, keeper)
		if err != nil {
			c.initErrors["keyStore"] = fmt.Errorf("failed to open key store: %w", err)
			return
		}
		c.keyStore = store
	})
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// KeyManager returns the initialized key manager. On first access it hydrates
// the key chain from the store, generating key version 1 when the store is empty.
func (c *Container) KeyManager(ctx context.Context) (*service.KeyManagerService, error) {
	c.keyManagerInit.Do(func() {
		store, err := c.KeyStore(ctx)
		if err != nil {
			c.initErrors["keyManager"] = err
			return
		}

		alg, err := domain.ParseAlgorithm(c.config.Algorithm)
		if err != nil {
			c.initErrors["keyManager"] = err
			return
		}

		manager := service.NewKeyManager(store, alg)
		if err := manager.Initialize(ctx); err != nil {
			c.initErrors["keyManager"] = fmt.Errorf("failed to initialize key manager: %w", err)
			return
		}
		c.keyManager = manager
	})
	if storedErr, exists := c.initErrors["keyManager"]; exists {
		return nil, storedErr
	}
	return c.keyManager, nil
}

// Cache returns the bounded plaintext result cache.
func (c *Container) Cache() (service.ResultCache, error) {
	c.cacheInit.Do(func() {
		cache, err := service.NewLRUResultCache(
			c.config.CacheCapacity,
			c.config.CacheMaxPlaintextBytes,
		)
		if err != nil {
			c.initErrors["cache"] = fmt.Errorf("failed to create result cache: %w", err)
			return
		}
		c.cache = cache
	})
	if storedErr, exists := c.initErrors["cache"]; exists {
		return nil, storedErr
	}
	return c.cache, nil
}

// FieldEncryption returns the field encryption facade. The facade is always
// decorated with operation instrumentation; when metrics are disabled the
// recorder is a no-op.
func (c *Container) FieldEncryption(ctx context.Context) (usecase.FieldEncryptionUseCase, error) {
	c.fieldEncryptionInit.Do(func() {
		keyManager, err := c.KeyManager(ctx)
		if err != nil {
			c.initErrors["fieldEncryption"] = err
			return
		}

		cache, err := c.Cache()
		if err != nil {
			c.initErrors["fieldEncryption"] = err
			return
		}

		useCase := usecase.NewFieldEncryptionUseCase(
			service.NewCipherEngine(keyManager, service.NewAEADManager()),
			keyManager,
			cache,
			service.NewHMACSearchHash([]byte(c.config.SearchHashSalt)),
		)

		recorder := metrics.NewNoOpOperationRecorder()
		if c.config.MetricsEnabled {
			provider, err := c.MetricsProvider()
			if err != nil {
				c.initErrors["fieldEncryption"] = err
				return
			}

			recorder, err = metrics.NewOperationRecorder(
				provider.MeterProvider(), c.config.MetricsNamespace)
			if err != nil {
				c.initErrors["fieldEncryption"] = fmt.Errorf("failed to create operation recorder: %w", err)
				return
			}

			if err := metrics.RegisterCacheGauge(
				provider.MeterProvider(), c.config.MetricsNamespace,
				func() int64 { return int64(cache.Len()) },
			); err != nil {
				c.initErrors["fieldEncryption"] = err
				return
			}
		}

		c.fieldEncryption = usecase.NewFieldEncryptionWithMetrics(useCase, recorder)
	})
	if storedErr, exists := c.initErrors["fieldEncryption"]; exists {
		return nil, storedErr
	}
	return c.fieldEncryption, nil
}

// MetricsProvider returns the Prometheus-backed metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// MetricsServer returns the HTTP server exposing Prometheus metrics, the
// engine counter snapshot, and the health endpoint.
func (c *Container) MetricsServer(ctx context.Context) (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		useCase, err := c.FieldEncryption(ctx)
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}

		var provider *metrics.Provider
		if c.config.MetricsEnabled {
			provider, err = c.MetricsProvider()
			if err != nil {
				c.initErrors["metricsServer"] = err
				return
			}
		}

		c.metricsServer = http.NewMetricsServer(
			c.config.MetricsHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
			useCase.Metrics,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Cleanup wipes key material and clears cached plaintexts.
	if c.fieldEncryption != nil {
		if err := c.fieldEncryption.Cleanup(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("encryption cleanup: %w", err))
		}
	} else if c.keyManager != nil {
		if err := c.keyManager.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("key manager close: %w", err))
		}
	}

	if c.keyStore != nil {
		if err := c.keyStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("key store close: %w", err))
		}
	}

	if c.keeper != nil {
		if err := c.keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("keeper close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
