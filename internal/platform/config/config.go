package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSecret     string
	SessionTTL    time.Duration
	TOTPIssuer    string
	Environment   string
	RunMigrations bool
	MigrationsDir string
	RunSeed       bool
	MaxBodyBytes  int64

	SeedAdminEmail    string
	SeedAdminPassword string

	// Geofence policy: one reference point and radius for the whole process.
	GeofenceLat      float64
	GeofenceLng      float64
	GeofenceRadiusM  float64
	GeofenceGeodesic bool

	FaceMatchThreshold float64

	// QR tokens carry their own expiry; tokens without one fall back to this window.
	QRFallbackValidity time.Duration
	QRTokenTTL         time.Duration

	LateHour          int
	AllowMultipleOpen bool

	EmailEnabled bool
	EmailFrom    string
	EmailTimeout time.Duration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPUseTLS   bool

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	RetentionInterval time.Duration
	MetricsEnabled    bool
}

func Load() Config {
	return Config{
		Addr:          getEnv("APP_ADDR", ":8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),
		TOTPIssuer:    getEnv("TOTP_ISSUER", "Pointage"),
		Environment:   getEnv("APP_ENV", "development"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		RunSeed:       getEnvBool("RUN_SEED", true),
		MaxBodyBytes:  int64(getEnvInt("MAX_BODY_BYTES", 1048576)),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),

		GeofenceLat:      getEnvFloat("GEOFENCE_LAT", 0),
		GeofenceLng:      getEnvFloat("GEOFENCE_LNG", 0),
		GeofenceRadiusM:  getEnvFloat("GEOFENCE_RADIUS_M", 200),
		GeofenceGeodesic: getEnvBool("GEOFENCE_GEODESIC", false),

		FaceMatchThreshold: getEnvFloat("FACE_MATCH_THRESHOLD", 0.6),

		QRFallbackValidity: getEnvDuration("QR_FALLBACK_VALIDITY", 5*time.Minute),
		QRTokenTTL:         getEnvDuration("QR_TOKEN_TTL", 12*time.Hour),

		LateHour: getEnvInt("LATE_HOUR", 9),
		// Permits a second entry while a session is still open. Historical
		// behavior; pending product clarification.
		AllowMultipleOpen: getEnvBool("ATTENDANCE_ALLOW_MULTIPLE_OPEN", false),

		EmailEnabled: getEnvBool("EMAIL_ENABLED", false),
		EmailFrom:    getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailTimeout: getEnvDuration("EMAIL_TIMEOUT", 5*time.Second),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:   getEnvBool("SMTP_USE_TLS", true),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", "hr-documents"),
		StorageUseSSL:    getEnvBool("STORAGE_USE_SSL", true),

		RetentionInterval: getEnvDuration("RETENTION_INTERVAL", 24*time.Hour),
		MetricsEnabled:    getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.GeofenceRadiusM < 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_M must not be negative")
	}
	if c.FaceMatchThreshold <= 0 {
		return fmt.Errorf("FACE_MATCH_THRESHOLD must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
