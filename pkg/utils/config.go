package utils

import (
	"os"
	"strconv"
	"time"
)

// Config carries every knob the api-server needs, loaded from POSEE_* env
// vars with dev-friendly defaults.
type Config struct {
	HTTPAddr string

	// External collaborators.
	DiscoveryBaseURL string
	GeminiAPIKey     string
	AnalyzerModel    string
	ImageModel       string

	// Artifact object store.
	ArtifactDir     string
	ArtifactBaseURL string

	// Comic cache.
	ComicTTL   time.Duration
	MaxReviews int // working-set prefix for curation, 5-10

	// Expiration sweeper.
	SweepInterval  time.Duration
	SweepGrace     time.Duration
	SweepBatchSize int
}

func LoadConfig() Config {
	return Config{
		HTTPAddr: envString("POSEE_HTTP_ADDR", ":8080"),

		DiscoveryBaseURL: envString("POSEE_DISCOVERY_URL", "http://localhost:9090"),
		GeminiAPIKey:     os.Getenv("POSEE_GEMINI_API_KEY"),
		AnalyzerModel:    envString("POSEE_ANALYZER_MODEL", "gemini-2.0-flash"),
		ImageModel:       envString("POSEE_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),

		ArtifactDir:     envString("POSEE_ARTIFACT_DIR", defaultArtifactDir()),
		ArtifactBaseURL: envString("POSEE_ARTIFACT_BASE_URL", "http://localhost:8080/artifacts"),

		// The source material disagreed on 24h vs 7d; a single knob decides.
		ComicTTL:   envDuration("POSEE_COMIC_TTL", 24*time.Hour),
		MaxReviews: clampInt(envInt("POSEE_MAX_REVIEWS", 8), 5, 10),

		SweepInterval:  envDuration("POSEE_SWEEP_INTERVAL", 30*time.Minute),
		SweepGrace:     envDuration("POSEE_SWEEP_GRACE", time.Minute),
		SweepBatchSize: envInt("POSEE_SWEEP_BATCH", 25),
	}
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration

	AdminUsername     string
	AdminPasswordHash string // bcrypt; empty means login disabled
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("POSEE_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	return AuthConfig{
		JWTSecret:         secret,
		JWTIssuer:         envString("POSEE_JWT_ISSUER", "poseereview"),
		JWTDuration:       envDuration("POSEE_JWT_TTL", 24*time.Hour),
		AdminUsername:     envString("POSEE_ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("POSEE_ADMIN_PASSWORD_HASH"),
	}
}

func defaultArtifactDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return home + "/.poseereview/artifacts"
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
