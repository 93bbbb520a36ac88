package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Auth       AuthConfig       `yaml:"auth"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Redis      RedisConfig      `yaml:"redis"`
	Mail       MailConfig       `yaml:"mail"`
	Log        LogConfig        `yaml:"log"`
	Automation AutomationConfig `yaml:"automation"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DBConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// LoginLimit tentativas de login por IP dentro de LoginWindow.
	LoginLimit  int           `yaml:"login_limit"`
	LoginWindow time.Duration `yaml:"login_window"`
}

// RabbitMQConfig: URL vazia desliga a fila e os webhooks saem direto do processo.
type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig: URL vazia usa o rate limiter em memória.
type RedisConfig struct {
	URL string `yaml:"url"`
}

type MailConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
	From string `yaml:"from"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AutomationConfig struct {
	ActionTimeout    time.Duration `yaml:"action_timeout"`
	FollowUpInterval time.Duration `yaml:"follow_up_interval"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"*"},
		},
		DB: DBConfig{
			Driver: "sqlite",
			URL:    "crm.db",
		},
		Auth: AuthConfig{
			JWTSecret:   "troque-este-segredo",
			TokenTTL:    7 * 24 * time.Hour,
			LoginLimit:  10,
			LoginWindow: time.Minute,
		},
		Mail: MailConfig{
			Port: 587,
			From: "no-reply@ligue.crm",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Automation: AutomationConfig{
			ActionTimeout:    5 * time.Second,
			FollowUpInterval: time.Minute,
		},
	}
}

// Load lê o .env (se existir), o YAML opcional de CRM_CONFIG_PATH e por fim
// as variáveis de ambiente, que sempre vencem.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CRM_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("erro ao interpretar arquivo de config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "HTTP_ADDR")
	setString(&cfg.DB.Driver, "DATABASE_DRIVER")
	setString(&cfg.DB.URL, "DATABASE_URL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Mail.Host, "MAIL_HOST")
	setString(&cfg.Mail.User, "MAIL_USER")
	setString(&cfg.Mail.Pass, "MAIL_PASS")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = splitList(origins)
	}
	if v := os.Getenv("MAIL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAIL_PORT inválido: %w", err)
		}
		cfg.Mail.Port = port
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"JWT_TTL", &cfg.Auth.TokenTTL},
		{"ACTION_TIMEOUT", &cfg.Automation.ActionTimeout},
		{"FOLLOW_UP_INTERVAL", &cfg.Automation.FollowUpInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s inválido: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
