package utils

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppURL           string `yaml:"APP_URL"`
	AppPort          string `yaml:"APP_PORT"`
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS"`
	LogLevel         string `yaml:"LOG_LEVEL"`
	LogFormat        string `yaml:"LOG_FORMAT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes string `yaml:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`

	// Google OAuth
	GoogleClientID     string `yaml:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `yaml:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `yaml:"GOOGLE_REDIRECT_URL"`

	// Push notifications
	PushAPIURL      string `yaml:"PUSH_API_URL"`
	PushAccessToken string `yaml:"PUSH_ACCESS_TOKEN"`

	// Rate limiting
	RedisAddr              string `yaml:"REDIS_ADDR"`
	RedisPassword          string `yaml:"REDIS_PASSWORD"`
	RateLimitMax           string `yaml:"RATE_LIMIT_MAX"`
	RateLimitWindowSeconds string `yaml:"RATE_LIMIT_WINDOW_SECONDS"`

	// Seed admin
	AdminEmail    string `yaml:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"ADMIN_PASSWORD"`
}

var (
	config     Config
	configOnce sync.Once
)

// LoadConfig reads .env (optional) and config.yaml once. Keys missing from
// config.yaml are read from the environment by GetConfig.
func LoadConfig() {
	configOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error reading .env file: %s\n", err)
		}

		file, err := os.ReadFile("config.yaml")
		if err != nil {
			log.Printf("Error reading YAML file: %s\n", err)
			return
		}

		err = yaml.Unmarshal(file, &config)
		if err != nil {
			log.Printf("Error parsing YAML file: %s\n", err)
			return
		}
	})
}

func GetConfig(key string) string {
	if value := fromFile(key); value != "" {
		return value
	}
	return os.Getenv(key)
}

func fromFile(key string) string {
	switch key {
	case "APP_URL":
		return config.AppURL
	case "APP_PORT":
		return config.AppPort
	case "CORS_ALLOW_ORIGINS":
		return config.CORSAllowOrigins
	case "LOG_LEVEL":
		return config.LogLevel
	case "LOG_FORMAT":
		return config.LogFormat
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return config.JWTTTLMinutes
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "GOOGLE_CLIENT_ID":
		return config.GoogleClientID
	case "GOOGLE_CLIENT_SECRET":
		return config.GoogleClientSecret
	case "GOOGLE_REDIRECT_URL":
		return config.GoogleRedirectURL
	case "PUSH_API_URL":
		return config.PushAPIURL
	case "PUSH_ACCESS_TOKEN":
		return config.PushAccessToken
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "RATE_LIMIT_WINDOW_SECONDS":
		return config.RateLimitWindowSeconds
	case "ADMIN_EMAIL":
		return config.AdminEmail
	case "ADMIN_PASSWORD":
		return config.AdminPassword
	default:
		return ""
	}
}

func GetConfigInt(key string, def int) int {
	raw := GetConfig(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid integer for %s: %q\n", key, raw)
		return def
	}
	return v
}

// GetConfigDuration reads an integer key and multiplies it by unit.
func GetConfigDuration(key string, unit time.Duration, def time.Duration) time.Duration {
	v := GetConfigInt(key, -1)
	if v < 0 {
		return def
	}
	return time.Duration(v) * unit
}
