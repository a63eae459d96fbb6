package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"hotel-billing/money"
	"hotel-billing/utils"
)

// Config is read once at startup from the environment (and .env, if present).
type Config struct {
	Port     string
	DBDriver string

	JWTSecret string
	JWTTTL    time.Duration

	RabbitURL string
	// Consumer turns on the settlement log consumer in this process.
	Consumer bool

	TwilioSID      string
	TwilioToken    string
	TwilioFrom     string
	TwilioWhatsApp bool

	CorsOrigins []string

	DefaultGSTRate        money.Rate
	RequireKitchenSettled bool
	AuditSchedule         string
	SnowflakeNode         int64
}

func Load() Config {
	cfg := Config{
		Port:                  utils.EnvOrDefault("PORT", "8080"),
		DBDriver:              strings.ToLower(utils.EnvOrDefault("DB_DRIVER", "mysql")),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		JWTTTL:                time.Duration(envInt("JWT_TTL_HOURS", 12)) * time.Hour,
		RabbitURL:             strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		Consumer:              envBool("SETTLEMENT_CONSUMER", true),
		TwilioSID:             strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		TwilioToken:           strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		TwilioFrom:            strings.TrimSpace(os.Getenv("TWILIO_FROM")),
		TwilioWhatsApp:        envBool("TWILIO_WHATSAPP", false),
		CorsOrigins:           parseCorsOrigins(os.Getenv("CORS_ORIGINS")),
		RequireKitchenSettled: envBool("REQUIRE_KITCHEN_SETTLED", false),
		AuditSchedule:         utils.EnvOrDefault("AUDIT_SCHEDULE", "@every 15m"),
		SnowflakeNode:         int64(envInt("SNOWFLAKE_NODE", 1)),
		DefaultGSTRate:        500,
	}

	if raw := strings.TrimSpace(os.Getenv("DEFAULT_GST_PERCENT")); raw != "" {
		rate, err := money.ParseRate(raw)
		if err != nil || rate < 0 {
			log.Printf("⚠️  invalid DEFAULT_GST_PERCENT %q, using %s%%", raw, cfg.DefaultGSTRate)
		} else {
			cfg.DefaultGSTRate = rate
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("⚠️  JWT_SECRET not set; using an insecure development secret")
		cfg.JWTSecret = "dev-only-secret"
	}
	return cfg
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️  invalid int for %s: %q, using %d", key, raw, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}
