package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings of the admin API, read from the environment.
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DBDSN string

	// Redis
	RedisURL string

	// Form sessions
	ImageStoreDriver string // "memory" or "redis"
	FormSessionTTL   time.Duration
	ReapInterval     time.Duration

	// JWT
	JWTSecret string

	// Uploads
	StorageDriver        string // "local" or "s3"
	LocalUploadDir       string
	LocalUploadURLPrefix string
	S3Region             string
	S3Bucket             string
	S3Prefix             string
	S3PublicBaseURL      string
	MaxUploadBytes       int64
	MaxImageDimension    int

	// AI
	GeminiAPIKey string
	GeminiModel  string

	// CORS
	CORSOrigins []string
}

// Load reads the configuration. Call godotenv.Load first to pick up a .env file.
func Load() *Config {
	maxUpload, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	maxDim, _ := strconv.Atoi(getEnv("MAX_IMAGE_DIMENSION", "1600"))

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", ""),

		DBDSN: getEnv("DB_DSN_PRIMARY", "root@tcp(127.0.0.1:3306)/taptosell_admin?parseTime=true"),

		RedisURL: getEnv("REDIS_URL", ""),

		ImageStoreDriver: getEnv("IMAGE_STORE_DRIVER", "memory"),
		FormSessionTTL:   getDuration("FORM_SESSION_TTL", 2*time.Hour),
		ReapInterval:     getDuration("FORM_REAP_INTERVAL", 5*time.Minute),

		JWTSecret: getEnv("JWT_SECRET", ""),

		StorageDriver:        getEnv("STORAGE_DRIVER", "local"),
		LocalUploadDir:       getEnv("LOCAL_UPLOAD_DIR", "./storage/uploads"),
		LocalUploadURLPrefix: getEnv("LOCAL_UPLOAD_URL_PREFIX", "/uploads"),
		S3Region:             getEnv("S3_REGION", ""),
		S3Bucket:             getEnv("S3_BUCKET", ""),
		S3Prefix:             getEnv("S3_PREFIX", "uploads"),
		S3PublicBaseURL:      getEnv("S3_PUBLIC_BASE_URL", ""),
		MaxUploadBytes:       maxUpload,
		MaxImageDimension:    maxDim,

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
