package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config — конфигурация бота. Значения из YAML могут переопределяться
// переменными окружения TELEGRAM_TOKEN, DATABASE_URL и STORAGE_TYPE.
type Config struct {
	TelegramBot struct {
		Token string `yaml:"token"`
	} `yaml:"telegram_bot"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	// Storage: "postgres" (по умолчанию) или "memory" для запуска без базы.
	Storage  string  `yaml:"storage"`
	Debug    bool    `yaml:"debug"`
	AdminIDs []int64 `yaml:"admin_ids"`
	Quiz     struct {
		QuestionsPerQuiz int `yaml:"questions_per_quiz"`
		HistoryLimit     int `yaml:"history_limit"`
	} `yaml:"quiz"`
}

// LoadConfig читает конфигурацию из файла и применяет переопределения
// из окружения. Для storage: postgres пустой DATABASE_URL — фатальная
// ошибка конфигурации.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}
	config.Storage = "postgres"
	config.Quiz.QuestionsPerQuiz = 10
	config.Quiz.HistoryLimit = 10

	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		config.TelegramBot.Token = token
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}
	if storage := os.Getenv("STORAGE_TYPE"); storage != "" {
		config.Storage = storage
	}

	if config.TelegramBot.Token == "" {
		return nil, fmt.Errorf("telegram token is not configured")
	}
	if config.Storage == "postgres" && config.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not configured")
	}

	return config, nil
}

// IsAdmin сообщает, входит ли пользователь в список администраторов.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
