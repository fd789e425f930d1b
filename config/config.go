// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Server        ServerConfiguration
	Database      DatabaseConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	JWT           JWTConfiguration
}

// ServerConfiguration stores the port and other web server settings
type ServerConfiguration struct {
	Port string
}

// DatabaseConfiguration stores data for the relational database connection.
// The pool holds PoolSize idle connections and may open up to
// PoolSize+MaxOverflow in total.
type DatabaseConfiguration struct {
	DSN             string
	PoolSize        int
	MaxOverflow     int
	ConnMaxLifetime string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr     string
	Password string
	DB       int
}

// ElasticsearchConfiguration stores data for the optional audit mirror
type ElasticsearchConfiguration struct {
	Enabled bool
	URL     string
	Index   string
}

// JWTConfiguration stores token signing settings
type JWTConfiguration struct {
	Secret string
	TTL    string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "revguard:revguard@tcp(localhost:3306)/revguard?charset=utf8mb4&parseTime=True&loc=UTC")
	viper.SetDefault("database.poolSize", 5)
	viper.SetDefault("database.maxOverflow", 10)
	viper.SetDefault("database.connMaxLifetime", "30m")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("elasticsearch.enabled", false)
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("elasticsearch.index", "audit-logs")
	viper.SetDefault("jwt.secret", "revguard-dev-secret-change-in-production")
	viper.SetDefault("jwt.ttl", "24h")
	viper.SetDefault("log.dir", "logging")
	viper.SetDefault("rateLimit.requests", 100)
	viper.SetDefault("rateLimit.window", "1m")
	viper.SetDefault("audit.defaultPageSize", 50)
	viper.SetDefault("audit.maxPageSize", 200)
	viper.SetDefault("seed.enabled", true)
	viper.SetDefault("seed.admin.email", "admin@revenueguardian.com")
	viper.SetDefault("seed.admin.username", "admin")
	viper.SetDefault("seed.admin.password", "")
	viper.SetDefault("seed.admin.fullName", "System Administrator")
	// Client IP is derived from X-Forwarded-For / X-Real-IP. That is only
	// safe behind a reverse proxy that strips these headers from untrusted
	// clients; deployments without one must set this to false.
	viper.SetDefault("server.trustProxyHeaders", true)

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	if err := viper.Unmarshal(&config); err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
