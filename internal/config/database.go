package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds the postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func LoadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:            viper.GetString(setting("database_host", "localhost")),
		Port:            viper.GetString(setting("database_port", "5432")),
		User:            viper.GetString(setting("database_user", "postgres")),
		Password:        viper.GetString(setting("database_password", "password")),
		Name:            viper.GetString(setting("database_name", "seat_fund")),
		SSLMode:         viper.GetString(setting("database_ssl_mode", "disable")),
		MaxOpenConns:    getInt("database_max_open_conns", 25),
		MaxIdleConns:    getInt("database_max_idle_conns", 5),
		ConnMaxLifetime: getDuration("database_conn_max_lifetime", 5*time.Minute),
	}
}

// DSN renders the lib/pq keyword/value connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedisConfig addresses the token blacklist and the redis event stream.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func LoadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:     viper.GetString(setting("redis_host", "localhost")),
		Port:     viper.GetString(setting("redis_port", "6379")),
		Password: viper.GetString(setting("redis_password", "")),
		DB:       getInt("redis_db", 0),
	}
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}
