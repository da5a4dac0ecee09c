package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func loadEnvString(key string, result *string) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	*result = s
}

func loadEnvUint(key string, result *uint) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	*result = uint(n)
}

func loadEnvInt(key string, result *int) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	*result = n
}

func loadEnvDuration(key string, result *time.Duration) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return
	}
	*result = d
}

/* Configuration */

/* PgSQL Configuration */
type pgSqlConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Database string `json:"database"`
	SslMode  string `json:"ssl_mode"`
	User     string `json:"user"`
	Password string `json:"password"`
}

func (p pgSqlConfig) ConnStr() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s", p.Host, p.Port, p.User, p.Password, p.Database, p.SslMode)
}

func defaultPgSql() pgSqlConfig {
	return pgSqlConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "causelist",
		User:     "",
		Password: "",
		SslMode:  "disable",
	}
}

func (p *pgSqlConfig) loadFromEnv() {
	loadEnvString("POSTGRES_HOST", &p.Host)
	loadEnvUint("POSTGRES_PORT", &p.Port)
	loadEnvString("POSTGRES_DB_NAME", &p.Database)
	loadEnvString("POSTGRES_SSLMODE", &p.SslMode)
	loadEnvString("POSTGRES_USERNAME", &p.User)
	loadEnvString("POSTGRES_PASSWORD", &p.Password)
}

/* Listen Configuration */

type listenConfig struct {
	Host string `json:"host"`
	Port uint   `json:"port"`
}

func (l listenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

func defaultListenConfig() listenConfig {
	return listenConfig{
		Host: "127.0.0.1",
		Port: 8080,
	}
}

func (l *listenConfig) loadFromEnv() {
	loadEnvString("LISTEN_HOST", &l.Host)
	loadEnvUint("LISTEN_PORT", &l.Port)
}

/* Court site Configuration */

// CourtConfig describes the causelist site plus the CSIS endpoints the
// proxy handlers forward to.
type CourtConfig struct {
	BaseURL        string        `json:"base_url"`
	CsisBaseURL    string        `json:"csis_base_url"`
	PortalBaseURL  string        `json:"portal_base_url"`
	UserAgent      string        `json:"user_agent"`
	RequestTimeout time.Duration `json:"request_timeout"`
	RetryAttempts  int           `json:"retry_attempts"`
	RetryDelay     time.Duration `json:"retry_delay"`
}

// FormURL is the page that hands out the session cookie.
func (c CourtConfig) FormURL() string {
	return c.BaseURL + "/advocateCodeCauseList"
}

// ResultURL is the endpoint the search form posts to.
func (c CourtConfig) ResultURL() string {
	return c.BaseURL + "/advocateCodeWiseView"
}

func (c *CourtConfig) loadFromEnv() {
	loadEnvString("COURT_BASE_URL", &c.BaseURL)
	loadEnvString("COURT_CSIS_BASE_URL", &c.CsisBaseURL)
	loadEnvString("COURT_PORTAL_BASE_URL", &c.PortalBaseURL)
	loadEnvString("COURT_USER_AGENT", &c.UserAgent)
	loadEnvDuration("COURT_REQUEST_TIMEOUT", &c.RequestTimeout)
	loadEnvInt("COURT_RETRY_ATTEMPTS", &c.RetryAttempts)
	loadEnvDuration("COURT_RETRY_DELAY", &c.RetryDelay)
}

func defaultCourtConfig() CourtConfig {
	return CourtConfig{
		BaseURL:        "https://causelist.tshc.gov.in",
		CsisBaseURL:    "https://csis.tshc.gov.in",
		PortalBaseURL:  "https://tshc.gov.in",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		RequestTimeout: 30 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     800 * time.Millisecond,
	}
}

type natsConfig struct {
	Host             string
	Port             uint
	Username         string
	Password         string
	JetStreamEnabled bool
}

func (c *natsConfig) loadFromEnv() {
	c.Host = getEnv("NATS_HOST", "localhost")

	if portStr := getEnv("NATS_PORT", "4222"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			c.Port = uint(port)
		} else {
			c.Port = 4222
		}
	} else {
		c.Port = 4222
	}

	c.Username = getEnv("NATS_USER", "")
	c.Password = getEnv("NATS_PASSWORD", "")

	if jsEnabled := getEnv("NATS_JETSTREAM_ENABLED", "true"); jsEnabled == "true" {
		c.JetStreamEnabled = true
	} else {
		c.JetStreamEnabled = false
	}
}

func (c *natsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

func defaultNatsConfig() natsConfig {
	return natsConfig{
		Host:             "localhost",
		Port:             4222,
		Username:         "",
		Password:         "",
		JetStreamEnabled: true,
	}
}

type securityConfig struct {
	BackendApiKey string
}

func (s *securityConfig) loadFromEnv() {
	s.BackendApiKey = getEnv("BACKEND_API_KEY", "")
}

func defaultSecurityConfig() securityConfig {
	return securityConfig{
		BackendApiKey: "",
	}
}

type redisConfig struct {
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (r *redisConfig) loadFromEnv() {
	loadEnvString("REDIS_HOST", &r.Host)
	loadEnvUint("REDIS_PORT", &r.Port)
	loadEnvString("REDIS_PASSWORD", &r.Password)

	if dbStr := getEnv("REDIS_DB", "0"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

func defaultRedisConfig() redisConfig {
	return redisConfig{
		Host:     "localhost",
		Port:     6379,
		Password: "",
		DB:       0,
	}
}

type GCSConfig struct {
	ProjectID       string
	CredentialsFile string
	Bucket          string
}

func (g *GCSConfig) loadFromEnv() {
	g.ProjectID = getEnv("GCS_PROJECT_ID", "")
	g.CredentialsFile = getEnv("GCS_CREDENTIALS_FILE", "")
	g.Bucket = getEnv("GCS_STORAGE_BUCKET", "")
}

func defaultGcsConfig() GCSConfig {
	return GCSConfig{
		ProjectID:       "",
		CredentialsFile: "",
		Bucket:          "",
	}
}

/* SMTP Configuration */

type SmtpConfig struct {
	Host     string
	Port     uint
	Username string
	Password string
	From     string
}

func (s SmtpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *SmtpConfig) loadFromEnv() {
	loadEnvString("SMTP_HOST", &s.Host)
	loadEnvUint("SMTP_PORT", &s.Port)
	loadEnvString("SMTP_USERNAME", &s.Username)
	loadEnvString("SMTP_PASSWORD", &s.Password)
	loadEnvString("SMTP_FROM", &s.From)
}

func defaultSmtpConfig() SmtpConfig {
	return SmtpConfig{
		Host: "localhost",
		Port: 587,
		From: "causelist@localhost",
	}
}

/* Scheduler Configuration */

type SchedulerConfig struct {
	Enabled    bool
	CronSpec   string
	MaxWorkers int
	ResultTTL  time.Duration
}

func (s *SchedulerConfig) loadFromEnv() {
	if enabled := getEnv("SCHEDULER_ENABLED", "true"); enabled == "true" {
		s.Enabled = true
	} else {
		s.Enabled = false
	}
	loadEnvString("SCHEDULER_CRON_SPEC", &s.CronSpec)
	loadEnvInt("SCHEDULER_MAX_WORKERS", &s.MaxWorkers)
	loadEnvDuration("SCHEDULER_RESULT_TTL", &s.ResultTTL)
}

func defaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:    true,
		CronSpec:   "0 7 * * *",
		MaxWorkers: 5,
		ResultTTL:  15 * time.Minute,
	}
}

type Config struct {
	Listen    listenConfig
	PgSql     pgSqlConfig
	Security  securityConfig
	Nats      natsConfig
	Redis     redisConfig
	GCS       GCSConfig
	Court     CourtConfig
	Smtp      SmtpConfig
	Scheduler SchedulerConfig
}

func (c *Config) LoadFromEnv() {
	c.Listen.loadFromEnv()
	c.PgSql.loadFromEnv()
	c.Security.loadFromEnv()
	c.Nats.loadFromEnv()
	c.Redis.loadFromEnv()
	c.GCS.loadFromEnv()
	c.Court.loadFromEnv()
	c.Smtp.loadFromEnv()
	c.Scheduler.loadFromEnv()
}

func DefaultConfig() Config {
	return Config{
		Listen:    defaultListenConfig(),
		PgSql:     defaultPgSql(),
		Security:  defaultSecurityConfig(),
		Nats:      defaultNatsConfig(),
		Redis:     defaultRedisConfig(),
		GCS:       defaultGcsConfig(),
		Court:     defaultCourtConfig(),
		Smtp:      defaultSmtpConfig(),
		Scheduler: defaultSchedulerConfig(),
	}
}
