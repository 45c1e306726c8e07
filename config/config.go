package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken    string
	PerceptionConfig string
	FrameSource      string
	FrameInterval    time.Duration
	ImagingBackend   string
	HTTPAddr         string
	JournalPath      string
	ZMQEndpoint      string
	LogLevel         string
	MaxFrameSide     int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		PerceptionConfig: getEnv("PERCEPTION_CONFIG", ""),
		FrameSource:      getEnv("FRAME_SOURCE", ""),
		FrameInterval:    getEnvAsDuration("FRAME_INTERVAL", 200*time.Millisecond),
		ImagingBackend:   getEnv("IMAGING_BACKEND", "native"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		JournalPath:      getEnv("JOURNAL_PATH", ""),
		ZMQEndpoint:      getEnv("ZMQ_ENDPOINT", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MaxFrameSide:     getEnvAsInt("MAX_FRAME_SIDE", 1280),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
