package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"beach-vision/internal/domain/perception"
)

// LoadPerception читает YAML поверх значений по умолчанию и проверяет результат.
// Пустой путь: только значения по умолчанию.
func LoadPerception(path string) (perception.Config, error) {
	if path == "" {
		cfg := perception.DefaultConfig()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return perception.Config{}, fmt.Errorf("read perception config: %w", err)
	}
	return ParsePerception(data)
}

// ParsePerception разбирает YAML; неизвестные ключи считаются ошибкой.
func ParsePerception(data []byte) (perception.Config, error) {
	cfg := perception.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return perception.Config{}, fmt.Errorf("parse perception config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return perception.Config{}, err
	}
	return cfg, nil
}
