// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KeyStorePath is the filesystem path of the key store document.
	// When empty, an in-memory store is used and keys do not survive restarts.
	KeyStorePath string

	// KMSKeyURI selects the KMS keeper that wraps key material at rest
	// (e.g., "gcpkms://...", "awskms://...", "hashivault://...", "base64key://...").
	// When empty, key material is stored unwrapped; acceptable for development only.
	KMSKeyURI string

	// Algorithm is the AEAD algorithm for new key versions
	// ("aes-gcm" or "chacha20-poly1305").
	Algorithm string

	// CacheCapacity is the maximum number of decrypted values kept in the
	// result cache.
	CacheCapacity int
	// CacheMaxPlaintextBytes is the admission limit: plaintext larger than this
	// is decrypted but never cached.
	CacheMaxPlaintextBytes int

	// SearchHashSalt keys the deterministic search hash. All service instances
	// sharing an encrypted column must share this salt.
	SearchHashSalt string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsHost is the host address the metrics server will bind to.
	MetricsHost string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Key store
		KeyStorePath: env.GetString("KEY_STORE_PATH", "keys.json"),
		KMSKeyURI:    env.GetString("KMS_KEY_URI", ""),

		// Encryption
		Algorithm: env.GetString("ENCRYPTION_ALGORITHM", "aes-gcm"),

		// Result cache
		CacheCapacity:          env.GetInt("CACHE_CAPACITY", 1024),
		CacheMaxPlaintextBytes: env.GetInt("CACHE_MAX_PLAINTEXT_BYTES", 10240),

		// Search hash
		SearchHashSalt: env.GetString("SEARCH_HASH_SALT", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "fieldcrypt"),
		MetricsHost:      env.GetString("METRICS_HOST", "0.0.0.0"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// loadDotEnv searches for a .env file starting from the current directory
// and walking up the tree, loading the first one found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
