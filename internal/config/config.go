package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backend names for DurableBackend and SessionBackend.
const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
	BackendRedis     = "redis"
	BackendMemory    = "memory"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	ProjectID string

	// TemplatePath is the watched dashboard document. Empty uses the
	// built-in document.
	TemplatePath string

	DurableBackend string
	SQLitePath     string

	SessionBackend      string
	RedisAddr           string
	RedisPassword       string
	RedisPasswordSecret string
	RedisDB             int
	SessionTTL          time.Duration

	AuthDisabled bool
	DevUID       string
}

// New reads the configuration from the environment. Variable names are the
// upper-cased keys, e.g. DURABLEBACKEND.
func New() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:                v.GetString("port"),
		LogLevel:            v.GetString("loglevel"),
		LogFormat:           v.GetString("logformat"),
		ProjectID:           v.GetString("projectid"),
		TemplatePath:        v.GetString("templatepath"),
		DurableBackend:      v.GetString("durablebackend"),
		SQLitePath:          v.GetString("sqlitepath"),
		SessionBackend:      v.GetString("sessionbackend"),
		RedisAddr:           v.GetString("redisaddr"),
		RedisPassword:       v.GetString("redispassword"),
		RedisPasswordSecret: v.GetString("redispasswordsecret"),
		RedisDB:             v.GetInt("redisdb"),
		SessionTTL:          v.GetDuration("sessionttl"),
		AuthDisabled:        v.GetBool("authdisabled"),
		DevUID:              v.GetString("devuid"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("loglevel", "info")
	v.SetDefault("logformat", "json")
	v.SetDefault("projectid", "")
	v.SetDefault("templatepath", "")
	v.SetDefault("durablebackend", BackendFirestore)
	v.SetDefault("sqlitepath", "dashboard.db")
	v.SetDefault("sessionbackend", BackendRedis)
	v.SetDefault("redisaddr", "localhost:6379")
	v.SetDefault("redispassword", "")
	v.SetDefault("redispasswordsecret", "")
	v.SetDefault("redisdb", 0)
	v.SetDefault("sessionttl", 12*time.Hour)
	v.SetDefault("authdisabled", false)
	v.SetDefault("devuid", "dev-user")
}

// Validate rejects combinations the bootstrap cannot serve.
func (c *Config) Validate() error {
	switch c.DurableBackend {
	case BackendFirestore:
		if c.ProjectID == "" {
			return fmt.Errorf("PROJECTID is required for the firestore backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITEPATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown DURABLEBACKEND %q", c.DurableBackend)
	}

	switch c.SessionBackend {
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDISADDR is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown SESSIONBACKEND %q", c.SessionBackend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSIONTTL must be positive")
	}
	if !c.AuthDisabled && c.DurableBackend != BackendFirestore && c.ProjectID == "" {
		return fmt.Errorf("PROJECTID is required for firebase auth; set AUTHDISABLED for local runs")
	}
	return nil
}
