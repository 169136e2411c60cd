package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode   `yaml:"mode"`
	HTTPAddr string `yaml:"http_addr"`
	LogMode  string `yaml:"log_mode"` // dev | prod
	SiteID   string `yaml:"site_id"`

	DBDriver string `yaml:"db_driver"` // sqlite | postgres
	DBDSN    string `yaml:"db_dsn"`

	BlobBasePath string `yaml:"blob_base_path"`

	UpstreamURL      string        `yaml:"upstream_url"`
	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`
	OfflineEvaluator bool          `yaml:"offline_evaluator"` // grade free text locally

	AuthHMACSecret string `yaml:"auth_hmac_secret"`
	DevUsers       bool   `yaml:"dev_users"` // username==password logins
	AdminUser      string `yaml:"admin_user"`
	AdminPassHash  string `yaml:"admin_pass_hash"` // bcrypt

	CORSOrigins []string `yaml:"cors_origins"`

	PartialCredit   bool `yaml:"partial_credit"`
	MaxEditDistance int  `yaml:"max_edit_distance"`
}

func Defaults() Config {
	return Config{
		Mode:            ModeOffline,
		HTTPAddr:        ":8080",
		LogMode:         "dev",
		SiteID:          "local",
		DBDriver:        "sqlite",
		BlobBasePath:    "./data",
		UpstreamURL:     "http://localhost:8000",
		UpstreamTimeout: 60 * time.Second,
		AuthHMACSecret:  "dev-secret-change-me",
		AdminUser:       "admin",
		AdminPassHash:   "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji",
		CORSOrigins:     []string{"http://localhost:3000"},
		PartialCredit:   true,
		MaxEditDistance: 2,
	}
}

// Load starts from Defaults, applies the YAML file named by CONFIG_FILE (if
// any), then environment overrides.
func Load() (Config, error) {
	cfg := Defaults()
	devUsersSet := false
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		var keys struct {
			DevUsers *bool `yaml:"dev_users"`
		}
		if err := yaml.Unmarshal(b, &keys); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		devUsersSet = keys.DevUsers != nil
	}
	cfg = applyEnv(cfg, devUsersSet)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv is Defaults plus environment overrides, without a config file.
func FromEnv() Config { return applyEnv(Defaults(), false) }

// applyEnv overlays environment variables on c. Unless devUsersSet (the
// config file named dev_users), dev logins default to on in offline mode.
func applyEnv(c Config, devUsersSet bool) Config {
	c.Mode = Mode(envOr("MODE", string(c.Mode)))
	c.HTTPAddr = envOr("HTTP_ADDR", c.HTTPAddr)
	c.LogMode = envOr("LOG_MODE", c.LogMode)
	c.SiteID = envOr("SITE_ID", c.SiteID)
	c.DBDriver = envOr("DB_DRIVER", c.DBDriver)
	c.DBDSN = envOr("DB_DSN", c.DBDSN)
	c.BlobBasePath = envOr("BLOB_BASE_PATH", c.BlobBasePath)
	c.UpstreamURL = envOr("UPSTREAM_URL", c.UpstreamURL)
	c.UpstreamTimeout = envDuration("UPSTREAM_TIMEOUT", c.UpstreamTimeout)
	c.OfflineEvaluator = envBool("OFFLINE_EVALUATOR", c.OfflineEvaluator)
	c.AuthHMACSecret = envOr("AUTH_HMAC_SECRET", c.AuthHMACSecret)
	if !devUsersSet {
		c.DevUsers = c.Mode == ModeOffline
	}
	c.DevUsers = envBool("DEV_USERS", c.DevUsers)
	c.AdminUser = envOr("ADMIN_USER", c.AdminUser)
	c.AdminPassHash = envOr("ADMIN_PASS_HASH", c.AdminPassHash)
	c.CORSOrigins = csvOr("CORS_ORIGINS", strings.Join(c.CORSOrigins, ","))
	c.PartialCredit = envBool("PARTIAL_CREDIT", c.PartialCredit)
	c.MaxEditDistance = envInt("MAX_EDIT_DISTANCE", c.MaxEditDistance)
	return c
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("invalid MODE %q", c.Mode)
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q", c.DBDriver)
	}
	if c.Mode == ModeOnline && c.AuthHMACSecret == Defaults().AuthHMACSecret {
		return fmt.Errorf("AUTH_HMAC_SECRET must be set in online mode")
	}
	if c.MaxEditDistance < 0 {
		return fmt.Errorf("MAX_EDIT_DISTANCE must be >= 0")
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

// envDuration accepts Go durations ("90s") or plain seconds ("90").
func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
