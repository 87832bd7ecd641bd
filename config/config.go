package config

import "os"

type Config struct {
	MongoURI     string
	RedisAddr    string
	HTTPPort     string
	SessionStore string // "memory" or "redis"
	CatalogPath  string // empty = bundled default
	TreePath     string
}

func Load() *Config {
	return &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		SessionStore: getEnv("SESSION_STORE", "memory"),
		CatalogPath:  os.Getenv("CATALOG_QUESTIONS"),
		TreePath:     os.Getenv("CATALOG_TREE"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
