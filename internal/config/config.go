package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret   string   `mapstructure:"JWT_SECRET"`
	JWTIssuer   string   `mapstructure:"JWT_ISSUER"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Surveillance policy. These drive the outbreak/trend detector and the
	// auto-provisioned threshold default; they are configuration, not code.
	DefaultCasesPerWeek int     `mapstructure:"SURV_DEFAULT_CASES_PER_WEEK"`
	OutbreakWindowDays  int     `mapstructure:"SURV_WINDOW_DAYS"`
	TrendMinCases       int     `mapstructure:"SURV_TREND_MIN_CASES"`
	TrendMinIncreasePct float64 `mapstructure:"SURV_TREND_MIN_INCREASE_PCT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SURV_DEFAULT_CASES_PER_WEEK", 5)
	v.SetDefault("SURV_WINDOW_DAYS", 7)
	v.SetDefault("SURV_TREND_MIN_CASES", 3)
	v.SetDefault("SURV_TREND_MIN_INCREASE_PCT", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("JWT_ISSUER")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SURV_DEFAULT_CASES_PER_WEEK")
	v.BindEnv("SURV_WINDOW_DAYS")
	v.BindEnv("SURV_TREND_MIN_CASES")
	v.BindEnv("SURV_TREND_MIN_INCREASE_PCT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — all requests get admin access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure JWT_SECRET for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// mode JWT_SECRET must be set so that real authentication is enforced, and
// the surveillance policy values must be sane.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf(
			"JWT_SECRET must be set when ENV is %q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.DefaultCasesPerWeek <= 0 {
		return fmt.Errorf("SURV_DEFAULT_CASES_PER_WEEK must be positive, got %d", c.DefaultCasesPerWeek)
	}
	if c.OutbreakWindowDays <= 0 {
		return fmt.Errorf("SURV_WINDOW_DAYS must be positive, got %d", c.OutbreakWindowDays)
	}
	if c.TrendMinCases < 0 {
		return fmt.Errorf("SURV_TREND_MIN_CASES must not be negative, got %d", c.TrendMinCases)
	}
	if c.TrendMinIncreasePct <= 0 {
		return fmt.Errorf("SURV_TREND_MIN_INCREASE_PCT must be positive, got %v", c.TrendMinIncreasePct)
	}
	return nil
}
