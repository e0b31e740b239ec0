package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret string
	JWTIssuer string
	// bcrypt hash of the key machine callers send in x-api-key; empty disables key auth
	ServiceAPIKeyHash string

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string

	DefaultCurrency     string
	MigrationsPath      string
	ChartOfAccountsFile string

	PostHogAPIKey      string
	PostHogEndpoint    string
	AuditDynamoDBTable string
	AuditQueueSize     int
	AWSRegion          string

	// Chart-of-accounts codes used by the posting rules
	PostingCash               string
	PostingAccountsReceivable string
	PostingAccountsPayable    string
	PostingServiceRevenue     string
	PostingCostOfGoodsSold    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "erp-finance-system")
	v.SetDefault("SERVICE_API_KEY_HASH", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_CURRENCY", "USD")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("CHART_OF_ACCOUNTS_FILE", "configs/chart_of_accounts.yaml")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	v.SetDefault("AUDIT_DYNAMODB_TABLE", "")
	v.SetDefault("AUDIT_QUEUE_SIZE", 256)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("POSTING_CASH", "1000")
	v.SetDefault("POSTING_ACCOUNTS_RECEIVABLE", "1100")
	v.SetDefault("POSTING_ACCOUNTS_PAYABLE", "2100")
	v.SetDefault("POSTING_SERVICE_REVENUE", "4100")
	v.SetDefault("POSTING_COST_OF_GOODS_SOLD", "5000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return loadFrom(viper.GetViper())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:               v.GetString("PGSQL_URL"),
		Port:                      v.GetString("PORT"),
		IsProduction:              v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:             v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:                 v.GetString("JWT_SECRET"),
		JWTIssuer:                 v.GetString("JWT_ISSUER"),
		ServiceAPIKeyHash:         v.GetString("SERVICE_API_KEY_HASH"),
		RateLimit:                 v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:        splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DefaultCurrency:           strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		MigrationsPath:            v.GetString("MIGRATIONS_PATH"),
		ChartOfAccountsFile:       v.GetString("CHART_OF_ACCOUNTS_FILE"),
		PostHogAPIKey:             v.GetString("POSTHOG_API_KEY"),
		PostHogEndpoint:           v.GetString("POSTHOG_ENDPOINT"),
		AuditDynamoDBTable:        v.GetString("AUDIT_DYNAMODB_TABLE"),
		AuditQueueSize:            v.GetInt("AUDIT_QUEUE_SIZE"),
		AWSRegion:                 v.GetString("AWS_REGION"),
		PostingCash:               v.GetString("POSTING_CASH"),
		PostingAccountsReceivable: v.GetString("POSTING_ACCOUNTS_RECEIVABLE"),
		PostingAccountsPayable:    v.GetString("POSTING_ACCOUNTS_PAYABLE"),
		PostingServiceRevenue:     v.GetString("POSTING_SERVICE_REVENUE"),
		PostingCostOfGoodsSold:    v.GetString("POSTING_COST_OF_GOODS_SOLD"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if len(cfg.DefaultCurrency) != 3 {
		return nil, fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter code, got %q", cfg.DefaultCurrency)
	}
	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
