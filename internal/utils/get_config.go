package utils

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort              string `yaml:"APP_PORT"`
	AppURL               string `yaml:"APP_URL"`
	LogDir               string `yaml:"LOG_DIR"`
	MigrateLegacyStorage string `yaml:"MIGRATE_LEGACY_STORAGE"`

	// Document store
	DBDriver      string `yaml:"DB_DRIVER"`
	MongoURI      string `yaml:"MONGO_URI"`
	MongoDatabase string `yaml:"MONGO_DATABASE"`
	DBUser        string `yaml:"DB_USER"`
	DBName        string `yaml:"DB_NAME"`
	DBPassword    string `yaml:"DB_PASSWORD"`
	DBPort        string `yaml:"DB_PORT"`
	DBHost        string `yaml:"DB_HOST"`

	// Sessions
	JWTSecret         string `yaml:"JWT_SECRET"`
	SessionTTL        string `yaml:"SESSION_TTL"`
	SessionCookieName string `yaml:"SESSION_COOKIE_NAME"`
	GoogleUserInfoURL string `yaml:"GOOGLE_USERINFO_URL"`

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

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`

	// Collaborators
	RedisURL      string `yaml:"REDIS_URL"`
	BarcodeAPIURL string `yaml:"BARCODE_API_URL"`
	PushAPIURL    string `yaml:"PUSH_API_URL"`
	DigestCron    string `yaml:"DIGEST_CRON"`
}

var (
	config Config

	defaults = map[string]string{
		"APP_PORT":               "8080",
		"LOG_DIR":                "./logs",
		"MIGRATE_LEGACY_STORAGE": "true",
		"DB_DRIVER":              "mongo",
		"MONGO_DATABASE":         "pantrypal",
		"SESSION_TTL":            "24h",
		"SESSION_COOKIE_NAME":    "pantrypal_session",
		"GEMINI_MODEL":           "gemini-1.5-flash",
		"DIGEST_CRON":            "0 8 * * *",
	}
)

// LoadConfig reads .env (if present) into the environment, then config.yaml.
// Values missing from the yaml fall back to the environment and then to defaults.
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error reading .env file: %s", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Error reading YAML file: %s", err)
		}
		return
	}

	if err = yaml.Unmarshal(file, &config); err != nil {
		log.Errorf("Error parsing YAML file: %s", err)
		return
	}
}

func GetConfig(key string) string {
	if v := strings.TrimSpace(lookup(key)); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaults[key]
}

func lookup(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "LOG_DIR":
		return config.LogDir
	case "MIGRATE_LEGACY_STORAGE":
		return config.MigrateLegacyStorage
	case "DB_DRIVER":
		return config.DBDriver
	case "MONGO_URI":
		return config.MongoURI
	case "MONGO_DATABASE":
		return config.MongoDatabase
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
	case "SESSION_TTL":
		return config.SessionTTL
	case "SESSION_COOKIE_NAME":
		return config.SessionCookieName
	case "GOOGLE_USERINFO_URL":
		return config.GoogleUserInfoURL
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
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		return config.GeminiModel
	case "REDIS_URL":
		return config.RedisURL
	case "BARCODE_API_URL":
		return config.BarcodeAPIURL
	case "PUSH_API_URL":
		return config.PushAPIURL
	case "DIGEST_CRON":
		return config.DigestCron
	default:
		return ""
	}
}
