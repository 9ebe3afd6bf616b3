package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage backend modes for document attachments
const (
	StorageLocal    = "local"
	StorageDatabase = "database"
	StorageS3       = "s3"
)

// VATConfig carries the jurisdiction-specific calculation settings. The
// standard-rate fallback and the mileage rate are configuration, not
// constants, so a deployment can track Revenue updates without a rebuild.
type VATConfig struct {
	Country              string
	StandardRate         decimal.Decimal // e.g. 23.00 for Ireland
	FallbackToStandard   bool            // apply StandardRate when a rate id fails to resolve
	MileageRatePerKm     decimal.Decimal // e.g. 0.3708 (Irish Revenue per-km rate)
	DefaultBusinessUsage decimal.Decimal // applied when a category supplies none
}

// S3Config holds credentials and addressing for the S3 attachment backend.
// Works against AWS S3 or any S3-compatible store (MinIO etc.)
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// StorageConfig selects and parameterizes the attachment backend.
type StorageConfig struct {
	Backend   string // local, database or s3
	LocalPath string
	S3        S3Config
}

// Config is the explicit process configuration, materialized once at
// startup and passed down. Below main, only the JWT middleware reads the
// environment directly (it resolves JWT_SECRET itself).
type Config struct {
	DatabaseDSN string
	Port        string
	CORSOrigins []string
	VAT         VATConfig
	Storage     StorageConfig
	SeedRefData bool
}

// Load reads configs/.env (when present) and the process environment into
// a Config. Missing values fall back to development defaults.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := Config{
		DatabaseDSN: buildDSN(),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		VAT: VATConfig{
			Country:              getEnv("VAT_COUNTRY", "Ireland"),
			StandardRate:         getDecimal("VAT_STANDARD_RATE", "23.00"),
			FallbackToStandard:   getBool("VAT_FALLBACK_TO_STANDARD", true),
			MileageRatePerKm:     getDecimal("VAT_MILEAGE_RATE", "0.3708"),
			DefaultBusinessUsage: getDecimal("VAT_DEFAULT_BUSINESS_USAGE", "100.00"),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", StorageLocal),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "uploads"),
			S3: S3Config{
				Bucket:       os.Getenv("S3_BUCKET"),
				Region:       getEnv("S3_REGION", "eu-west-1"),
				Endpoint:     os.Getenv("S3_ENDPOINT"),
				AccessKey:    os.Getenv("S3_ACCESS_KEY"),
				SecretKey:    os.Getenv("S3_SECRET_KEY"),
				UsePathStyle: getBool("S3_USE_PATH_STYLE", false),
			},
		},
		SeedRefData: getBool("SEED_REFERENCE_DATA", true),
	}

	return cfg
}

// Validate rejects configurations the server cannot safely run with.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageLocal, StorageDatabase:
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be local, database or s3", c.Storage.Backend)
	}

	if c.VAT.StandardRate.IsNegative() {
		return fmt.Errorf("VAT_STANDARD_RATE must not be negative")
	}
	if c.VAT.MileageRatePerKm.IsNegative() {
		return fmt.Errorf("VAT_MILEAGE_RATE must not be negative")
	}

	return nil
}

func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "postgres")
	sslMode := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return parsed
}

func getDecimal(key, fallback string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Printf("Invalid decimal for %s=%q, using default %s", key, v, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
