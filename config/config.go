package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cwrk-planet/practice-service/internal/domain"
	"github.com/cwrk-planet/practice-service/internal/logger"
	"github.com/cwrk-planet/practice-service/internal/pg"
	"github.com/cwrk-planet/practice-service/internal/telemetry"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const defaultPath = "./config/config.yaml"

type HTTP struct {
	Addr            string        `yaml:"addr"`            // ":8080"
	ReadTimeout     time.Duration `yaml:"readTimeout"`     // 15s
	WriteTimeout    time.Duration `yaml:"writeTimeout"`    // 30s
	IdleTimeout     time.Duration `yaml:"idleTimeout"`     // 60s
	RequestTimeout  time.Duration `yaml:"requestTimeout"`  // 30s
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // 10s
}

func (h *HTTP) Validate() error {
	if h.Addr == "" {
		return errors.New("http.addr is required")
	}
	h.ReadTimeout = orDefault(h.ReadTimeout, 15*time.Second)
	h.WriteTimeout = orDefault(h.WriteTimeout, 30*time.Second)
	h.IdleTimeout = orDefault(h.IdleTimeout, 60*time.Second)
	h.RequestTimeout = orDefault(h.RequestTimeout, 30*time.Second)
	h.ShutdownTimeout = orDefault(h.ShutdownTimeout, 10*time.Second)
	return nil
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // practice-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	Level     string `yaml:"level"`     // debug|info|warn|error
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

func (l *Logging) Validate() error {
	if l.Service == "" {
		l.Service = "practice-service"
	}
	if l.Env == "" {
		l.Env = "dev"
	}
	if l.Version == "" {
		l.Version = "v0.1.0"
	}
	if l.Backend == "" {
		l.Backend = "std"
	}
	if l.Backend != string(logger.BackendStd) && l.Backend != string(logger.BackendZap) {
		return fmt.Errorf("logging.backend must be std or zap, got %q", l.Backend)
	}
	if _, err := logger.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (l Logging) ToLoggerConfig() logger.Config {
	lvl, _ := logger.ParseLevel(l.Level)
	return logger.Config{
		Env:       logger.ParseEnv(l.Env),
		Service:   l.Service,
		Version:   l.Version,
		Backend:   logger.Backend(l.Backend),
		Level:     lvl,
		AddSource: l.AddSource,
		Debug:     l.Debug,
	}
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Storage struct {
	Driver string `yaml:"driver"` // postgres|memory
}

func (s *Storage) Validate() error {
	if s.Driver == "" {
		s.Driver = DriverPostgres
	}
	if s.Driver != DriverPostgres && s.Driver != DriverMemory {
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", s.Driver)
	}
	return nil
}

type Postgres struct {
	DSN               string        `yaml:"dsn"`
	MaxConns          int32         `yaml:"maxConns"`
	MinConns          int32         `yaml:"minConns"`
	MaxConnLifetime   time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime   time.Duration `yaml:"maxConnIdleTime"`
	HealthCheckPeriod time.Duration `yaml:"healthCheckPeriod"`
	ConnectTimeout    time.Duration `yaml:"connectTimeout"`
	ApplicationName   string        `yaml:"applicationName"`
	Migrate           bool          `yaml:"migrate"` // накатить встроенные миграции при старте
}

func (p Postgres) Validate() error {
	if p.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if p.MinConns < 0 || p.MaxConns < 0 {
		return errors.New("postgres.minConns/maxConns must not be negative")
	}
	if p.MaxConns > 0 && p.MinConns > p.MaxConns {
		return errors.New("postgres.minConns must be <= maxConns")
	}
	return nil
}

func (p Postgres) ToPGConfig() pg.Config {
	name := p.ApplicationName
	if name == "" {
		name = "practice-service"
	}
	return pg.Config{
		DSN:               p.DSN,
		MaxConns:          p.MaxConns,
		MinConns:          p.MinConns,
		MaxConnLifetime:   p.MaxConnLifetime,
		MaxConnIdleTime:   p.MaxConnIdleTime,
		HealthCheckPeriod: p.HealthCheckPeriod,
		ConnectTimeout:    p.ConnectTimeout,
		ApplicationName:   name,
	}
}

// Auth: без jwtPublicKeyPath сервис доверяет X-User-ID от api-gateway.
type Auth struct {
	JWTPublicKeyPath string        `yaml:"jwtPublicKeyPath"`
	Issuer           string        `yaml:"issuer"`
	Audience         string        `yaml:"audience"`
	ClockSkew        time.Duration `yaml:"clockSkew"` // напр. 30s
}

func (a Auth) Validate() error {
	if a.ClockSkew < 0 || a.ClockSkew > time.Minute {
		return errors.New("auth.clockSkew must be in [0..1m]")
	}
	if a.JWTPublicKeyPath == "" && (a.Issuer != "" || a.Audience != "") {
		return errors.New("auth.issuer/audience need auth.jwtPublicKeyPath")
	}
	return nil
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func (c *CORS) Validate() error {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	return nil
}

type Tracing struct {
	Enabled    bool    `yaml:"enabled"`
	Endpoint   string  `yaml:"endpoint"` // host:port OTLP/HTTP
	Insecure   bool    `yaml:"insecure"`
	SampleRate float64 `yaml:"sampleRate"`
}

func (t *Tracing) Validate() error {
	if !t.Enabled {
		return nil
	}
	if t.Endpoint == "" {
		return errors.New("tracing.endpoint is required when tracing is enabled")
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return errors.New("tracing.sampleRate must be in [0..1]")
	}
	if t.SampleRate == 0 {
		t.SampleRate = 1
	}
	return nil
}

func (t Tracing) ToTelemetryConfig(l Logging) telemetry.Config {
	return telemetry.Config{
		Service:    l.Service,
		Version:    l.Version,
		Env:        l.Env,
		Endpoint:   t.Endpoint,
		Insecure:   t.Insecure,
		SampleRate: t.SampleRate,
	}
}

type Metrics struct {
	Enabled bool `yaml:"enabled"`
}

// Technique: запись каталога техник для начального заполнения.
type Technique struct {
	ID          string                  `yaml:"id"`
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Parameters  []domain.TechniqueParam `yaml:"parameters"`
}

type Config struct {
	HTTP       HTTP        `yaml:"http"`
	Logging    Logging     `yaml:"logging"`
	Storage    Storage     `yaml:"storage"`
	Postgres   Postgres    `yaml:"postgres"`
	Auth       Auth        `yaml:"auth"`
	CORS       CORS        `yaml:"cors"`
	Tracing    Tracing     `yaml:"tracing"`
	Metrics    Metrics     `yaml:"metrics"`
	Techniques []Technique `yaml:"techniques"`
}

// LoadConfig читает YAML из CONFIG_PATH (по умолчанию ./config/config.yaml).
func LoadConfig() (*Config, error) {
	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		path = defaultPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет секции и проставляет дефолты.
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Storage.Driver == DriverPostgres {
		if err := c.Postgres.Validate(); err != nil {
			return err
		}
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.CORS.Validate(); err != nil {
		return err
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	if _, err := c.TechniqueCatalog(); err != nil {
		return err
	}
	return nil
}

// TechniqueCatalog переводит секцию techniques в доменные записи.
func (c *Config) TechniqueCatalog() ([]domain.Technique, error) {
	out := make([]domain.Technique, 0, len(c.Techniques))
	for i, t := range c.Techniques {
		id, err := uuid.Parse(t.ID)
		if err != nil {
			return nil, fmt.Errorf("techniques[%d].id: %w", i, err)
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("techniques[%d].name is required", i)
		}
		item := domain.Technique{ID: id, Name: t.Name, Parameters: t.Parameters}
		if t.Description != "" {
			d := t.Description
			item.Description = &d
		}
		out = append(out, item)
	}
	return out, nil
}

func orDefault(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
