package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"task-manager/internal/repository/sqlite"
)

// Config holds all configuration options for the task manager
type Config struct {
	WeChatPay   WeChatPayConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Validation  ValidationConfig
	Application ApplicationConfig
}

// WeChatPayConfig holds merchant credentials for the bill ingestion adapter
type WeChatPayConfig struct {
	MerchantID     string        `env:"WECHAT_MERCHANT_ID"`
	PrivateKey     string        `env:"WECHAT_PRIVATE_KEY"`
	APIv3Key       string        `env:"WECHAT_API_V3_KEY"`
	CertSerialNo   string        `env:"WECHAT_CERT_SERIAL_NO"`
	BaseURL        string        `env:"WECHAT_API_BASE_URL"`
	BillType       string        `env:"WECHAT_BILL_TYPE"`
	RequestTimeout time.Duration `env:"WECHAT_REQUEST_TIMEOUT"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string        `env:"TM_SERVER_ADDR"`
	ReadTimeout  time.Duration `env:"TM_SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"TM_SERVER_WRITE_TIMEOUT"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN          string        `env:"TM_DB_DSN"`
	QueryTimeout time.Duration `env:"TM_DB_QUERY_TIMEOUT"`
	WriteTimeout time.Duration `env:"TM_DB_WRITE_TIMEOUT"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TaskTextMaxLength int `env:"TM_TASK_TEXT_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TM_APP_TIMEOUT"`
	Verbose bool          `env:"TM_APP_VERBOSE"`
	Env     Environment   `env:"TM_ENV"`
}

// Bill types accepted by the tradebill endpoint
var validBillTypes = map[string]bool{"ALL": true, "SUCCESS": true, "REFUND": true}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		WeChatPay: WeChatPayConfig{
			BaseURL:        "https://api.mch.weixin.qq.com",
			BillType:       "ALL",
			RequestTimeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:          ":memory:",
			QueryTimeout: 10 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
		Validation: ValidationConfig{
			TaskTextMaxLength: 500,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
			Env:     Production,
		},
	}
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// HasWeChatCredentials reports whether every credential needed to sign requests is set.
func (c *Config) HasWeChatCredentials() bool {
	w := c.WeChatPay
	return w.MerchantID != "" && w.PrivateKey != "" && w.CertSerialNo != ""
}

// PrivateKeyPEM returns the merchant private key. WECHAT_PRIVATE_KEY holds
// either the PEM text itself or a path to a PEM file.
func (c *Config) PrivateKeyPEM() ([]byte, error) {
	key := strings.TrimSpace(c.WeChatPay.PrivateKey)
	if key == "" {
		return nil, &ConfigError{Field: "wechat.private_key", Message: "private key is not set"}
	}
	if strings.HasPrefix(key, "-----BEGIN") {
		// .env files usually carry the key on one line with literal \n
		return []byte(strings.ReplaceAll(key, `\n`, "\n")), nil
	}
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, &ConfigError{Field: "wechat.private_key", Message: fmt.Sprintf("cannot read key file: %v", err)}
	}
	return data, nil
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// WeChat Pay configuration
	if v := os.Getenv("WECHAT_MERCHANT_ID"); v != "" {
		c.WeChatPay.MerchantID = v
	}
	if v := os.Getenv("WECHAT_PRIVATE_KEY"); v != "" {
		c.WeChatPay.PrivateKey = v
	}
	if v := os.Getenv("WECHAT_API_V3_KEY"); v != "" {
		c.WeChatPay.APIv3Key = v
	}
	if v := os.Getenv("WECHAT_CERT_SERIAL_NO"); v != "" {
		c.WeChatPay.CertSerialNo = v
	}
	if v := os.Getenv("WECHAT_API_BASE_URL"); v != "" {
		c.WeChatPay.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("WECHAT_BILL_TYPE"); v != "" {
		c.WeChatPay.BillType = strings.ToUpper(v)
	}
	if v := os.Getenv("WECHAT_REQUEST_TIMEOUT"); v != "" {
		c.WeChatPay.RequestTimeout = ParseDurationWithFallback(v, c.WeChatPay.RequestTimeout)
	}

	// Server configuration
	if v := os.Getenv("TM_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TM_SERVER_READ_TIMEOUT"); v != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(v, c.Server.ReadTimeout)
	}
	if v := os.Getenv("TM_SERVER_WRITE_TIMEOUT"); v != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(v, c.Server.WriteTimeout)
	}

	// Database configuration
	if v := os.Getenv("TM_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("TM_DB_QUERY_TIMEOUT"); v != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(v, c.Database.QueryTimeout)
	}
	if v := os.Getenv("TM_DB_WRITE_TIMEOUT"); v != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(v, c.Database.WriteTimeout)
	}

	// Validation configuration
	if v := os.Getenv("TM_TASK_TEXT_MAX"); v != "" {
		c.Validation.TaskTextMaxLength = ParseIntWithFallback(v, c.Validation.TaskTextMaxLength)
	}

	// Application configuration
	if v := os.Getenv("TM_APP_TIMEOUT"); v != "" {
		c.Application.Timeout = ParseDurationWithFallback(v, c.Application.Timeout)
	}
	if v := os.Getenv("TM_APP_VERBOSE"); v != "" {
		c.Application.Verbose = ParseBoolWithFallback(v, c.Application.Verbose)
	}
	if v := os.Getenv("TM_ENV"); v != "" {
		c.Application.Env = ParseEnvironment(v)
	}

	return nil
}

// Validate validates the configuration and returns any errors.
// Missing WeChat credentials are not an error; the bill adapter is disabled instead.
func (c *Config) Validate() error {
	// Validate WeChat Pay configuration
	if c.WeChatPay.BaseURL == "" {
		return &ConfigError{Field: "wechat.base_url", Message: "API base URL cannot be empty"}
	}
	if !validBillTypes[c.WeChatPay.BillType] {
		return &ConfigError{Field: "wechat.bill_type", Message: "bill type must be one of ALL, SUCCESS, REFUND"}
	}
	if c.WeChatPay.RequestTimeout <= 0 {
		return &ConfigError{Field: "wechat.request_timeout", Message: "request timeout must be positive"}
	}
	if c.WeChatPay.APIv3Key != "" && len(c.WeChatPay.APIv3Key) != 32 {
		return &ConfigError{Field: "wechat.api_v3_key", Message: "APIv3 key must be 32 bytes"}
	}

	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.timeouts", Message: "server timeouts must be positive"}
	}

	// Validate database configuration
	if c.Database.DSN == "" {
		return &ConfigError{Field: "database.dsn", Message: "database DSN cannot be empty"}
	}
	if !sqlite.IsMemoryDSN(c.Database.DSN) {
		return &ConfigError{Field: "database.dsn", Message: "only in-memory databases are supported"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TaskTextMaxLength < 1 {
		return &ConfigError{Field: "validation.task_text_max_length", Message: "task text maximum length must be at least 1"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
