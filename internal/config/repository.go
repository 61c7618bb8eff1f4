package config

import (
	"fmt"
	"strings"

	"task-manager/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment maps a TM_ENV value to an Environment, defaulting to production
func ParseEnvironment(s string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(s))) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}

// IsDevelopment reports whether human-readable console output should be used
func (e Environment) IsDevelopment() bool {
	return e == Development
}

// CreateRepository creates a repository instance using the configuration system
func CreateRepository(config *Config) (*sqlite.SQLiteRepository, error) {
	dsn := config.Database.DSN
	if config.Application.Env == Testing {
		// tests always get a throwaway database regardless of TM_DB_DSN
		dsn = sqlite.MemoryDSN
	}

	repo, err := sqlite.NewWithOptions(dsn, sqlite.Options{
		QueryTimeout: config.GetQueryTimeout(),
		WriteTimeout: config.GetWriteTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (*sqlite.SQLiteRepository, error) {
	repo, err := sqlite.New(sqlite.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
