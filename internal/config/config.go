package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config representa la configuración de los procesos del customer store
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Web      WebConfig
	Logging  LoggingConfig
}

// ServerConfig representa la configuración del servidor HTTP de la API
type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	BasePath     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig representa la configuración de la base de datos
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
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

// RedisConfig representa la configuración de Redis
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// WebConfig representa la configuración del front-end MVC
type WebConfig struct {
	Port          string
	Host          string
	APIBaseURL    string
	ClientTimeout time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	// CSRFKey es la clave de 32 bytes en hexadecimal que firma los tokens anti-CSRF
	CSRFKey       string
	SecureCookies bool
}

// LoggingConfig representa la configuración de logging
type LoggingConfig struct {
	Level  string
	Format string
}

// Load carga la configuración desde variables de entorno
func Load() (*Config, error) {
	// El archivo .env es opcional
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8081"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Env:          getEnv("SERVER_ENV", "development"),
			BasePath:     getEnv("API_BASE_PATH", "/api"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("PGHOST", "localhost"),
			Port:            getEnv("PGPORT", "5432"),
			User:            getEnv("PGUSER", "postgres"),
			Password:        getEnv("PGPASSWORD", "postgres"),
			Name:            getEnv("PGDATABASE", "customer_store"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 10*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Web: WebConfig{
			Port:          getEnv("WEB_PORT", "8080"),
			Host:          getEnv("WEB_HOST", "0.0.0.0"),
			APIBaseURL:    getEnv("WEB_API_BASE_URL", "http://localhost:8081/api"),
			ClientTimeout: getEnvAsDuration("WEB_CLIENT_TIMEOUT", 10*time.Second),
			ReadTimeout:   getEnvAsDuration("WEB_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:  getEnvAsDuration("WEB_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:   getEnvAsDuration("WEB_IDLE_TIMEOUT", 60*time.Second),
			CSRFKey:       getEnv("WEB_CSRF_KEY", ""),
			SecureCookies: getEnvAsBool("WEB_SECURE_COOKIES", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica los valores que no tienen un default razonable
func (c *Config) Validate() error {
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("API_BASE_PATH must start with '/': %q", c.Server.BasePath)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot exceed DB_MAX_OPEN_CONNS (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Web.APIBaseURL == "" {
		return fmt.Errorf("WEB_API_BASE_URL is required")
	}
	if c.Web.CSRFKey == "" {
		if c.IsProduction() {
			return fmt.Errorf("WEB_CSRF_KEY is required in production")
		}
	} else if _, err := c.Web.CSRFKeyBytes(); err != nil {
		return err
	}
	return nil
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt obtiene una variable de entorno como entero
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool obtiene una variable de entorno como booleano
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration obtiene una variable de entorno como duración
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// IsDevelopment retorna true si el entorno es de desarrollo
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction retorna true si el entorno es de producción
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetDSN retorna la cadena de conexión a la base de datos
func (c *Config) GetDSN() string {
	return "host=" + c.Database.Host +
		" port=" + c.Database.Port +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" sslmode=" + c.Database.SSLMode
}

// GetRedisAddr retorna la dirección de Redis
func (c *Config) GetRedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// GetServerAddr retorna la dirección de escucha de la API
func (c *Config) GetServerAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// CSRFKeyBytes decodifica WEB_CSRF_KEY; retorna nil si no está configurada
func (w WebConfig) CSRFKeyBytes() ([]byte, error) {
	if w.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(w.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("WEB_CSRF_KEY must be 64 hexadecimal characters (32 bytes)")
	}
	return key, nil
}

// GetWebAddr retorna la dirección de escucha del front-end
func (c *Config) GetWebAddr() string {
	return c.Web.Host + ":" + c.Web.Port
}
