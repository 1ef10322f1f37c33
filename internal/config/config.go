package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBPath     string

	// Hex encoded 32 byte key used to decrypt provider keys at rest.
	SettingsEncryptionKey string

	BuckarooProviderID int64
	BuckarooWebhookURL string

	AdminJWTSecret string

	// Requests presenting this value in X-Service-Auth get the internal rate tier.
	InternalSecretKey string
}

// UseTestEnvironment reports whether provider test credentials apply.
func (c *Config) UseTestEnvironment() bool {
	return IsTestEnvironment(c.AppEnv)
}

func IsTestEnvironment(env string) bool {
	return env == "test" || env == "development"
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:                os.Getenv("APP_ENV"),
		AppPort:               os.Getenv("APP_PORT"),
		DBDriver:              os.Getenv("DB_DRIVER"),
		DBHost:                os.Getenv("DB_HOST"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBPort:                os.Getenv("DB_PORT"),
		DBPath:                os.Getenv("DB_PATH"),
		SettingsEncryptionKey: os.Getenv("SETTINGS_ENCRYPTION_KEY"),
		BuckarooWebhookURL:    os.Getenv("BUCKAROO_WEBHOOK_URL"),
		AdminJWTSecret:        os.Getenv("ADMIN_JWT_SECRET"),
		InternalSecretKey:     os.Getenv("INTERNAL_SECRET_KEY"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}

	if v := os.Getenv("BUCKAROO_PROVIDER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("invalid BUCKAROO_PROVIDER_ID %q: %v", v, err)
		}
		cfg.BuckarooProviderID = id
	}

	if cfg.DBDriver == "sqlite" {
		if cfg.DBPath == "" {
			log.Fatal("DB_PATH must be set when DB_DRIVER=sqlite")
		}
	} else if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
