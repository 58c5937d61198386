package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

// Credentials is the client id/secret pair issued by a platform's developer console.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

type Platforms struct {
	Facebook  Credentials
	Instagram Credentials
	LinkedIn  Credentials
	Twitter   Credentials

	FacebookNativeScheduling bool
}

type HTTP struct {
	Timeout           time.Duration
	MaxRetries        int
	DefaultRetryAfter time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
}

type Config struct {
	Platforms            Platforms
	HTTP                 HTTP
	PostgresURI          string
	RedisURI             string
	R2                   R2
	SecretKey            string
	CookieName           string
	Port                 string
	TokenRefreshInterval time.Duration
	TokenRefreshWindow   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Platforms: Platforms{
			Facebook: Credentials{
				ClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
				ClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
			},
			Instagram: Credentials{
				ClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
				ClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
			},
			LinkedIn: Credentials{
				ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
				ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			},
			Twitter: Credentials{
				ClientID:     getEnv("TWITTER_CLIENT_ID", ""),
				ClientSecret: getEnv("TWITTER_CLIENT_SECRET", ""),
			},
			FacebookNativeScheduling: getEnvBool("FACEBOOK_NATIVE_SCHEDULING", false),
		},
		HTTP: HTTP{
			Timeout:           getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
			MaxRetries:        getEnvInt("HTTP_MAX_RETRIES", 3),
			DefaultRetryAfter: getEnvDuration("HTTP_RETRY_AFTER_DEFAULT", 5*time.Second),
			RateLimitRPS:      getEnvFloat("HTTP_RATE_LIMIT_RPS", 0),
			RateLimitBurst:    getEnvInt("HTTP_RATE_LIMIT_BURST", 1),
		},
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", "localhost:6379"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		SecretKey:            getEnv("SECRET_KEY", ""),
		CookieName:           getEnv("COOKIE_NAME", "socialbridge_session"),
		Port:                 getEnv("PORT", "3000"),
		TokenRefreshInterval: getEnvDuration("TOKEN_REFRESH_INTERVAL", 10*time.Minute),
		TokenRefreshWindow:   getEnvDuration("TOKEN_REFRESH_WINDOW", 30*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
