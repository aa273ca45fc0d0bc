package config

import (
	"fmt"
	"os"
	"time"

	"github.com/LaibaFaraz/HealMind/internal/pkg/apperrors"
	"github.com/LaibaFaraz/HealMind/internal/pkg/logging"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultConfigPath используется, если HM_CONFIG не задан.
// Поддерживаются .yaml и .json; длительности в JSON задаются в наносекундах.
const DefaultConfigPath = "config.yaml"

// Драйверы хранилища.
const (
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	Environment string `json:"environment" yaml:"environment" env:"HM_ENV" env-default:"development"`
	ServerPort  string `json:"server_port" yaml:"server_port" env:"HM_SERVER_PORT" env-default:"8080"`

	Tracking TrackingConfig `json:"tracking" yaml:"tracking"`
	Kafka    KafkaConfig    `json:"kafka" yaml:"kafka"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Stress   StressConfig   `json:"stress" yaml:"stress"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
}

// TrackingConfig - параметры подключения к сервису трекинга и опроса пульса
type TrackingConfig struct {
	// Эндпоинт, к которому view-model подключается при старте (может быть пустым)
	DefaultEndpoint string        `json:"default_endpoint" yaml:"default_endpoint" env:"HM_TRACKING_ENDPOINT"`
	Interval        time.Duration `json:"interval" yaml:"interval" env:"HM_TRACKING_INTERVAL" env-default:"1s"`
	RequestTimeout  time.Duration `json:"request_timeout" yaml:"request_timeout" env:"HM_TRACKING_TIMEOUT" env-default:"5s"`
	MaxValues       int           `json:"max_values" yaml:"max_values" env:"HM_TRACKING_MAX_VALUES" env-default:"1000"`
	CapabilityTTL   time.Duration `json:"capability_ttl" yaml:"capability_ttl" env:"HM_CAPABILITY_TTL" env-default:"5m"`
}

// KafkaConfig - транспорт сообщений часы -> телефон
type KafkaConfig struct {
	Brokers       []string `json:"brokers" yaml:"brokers" env:"HM_KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	Topic         string   `json:"topic" yaml:"topic" env:"HM_KAFKA_TOPIC" env-default:"healmind-messages"`
	GroupID       string   `json:"group_id" yaml:"group_id" env:"HM_KAFKA_GROUP" env-default:"healmind-listener"`
	NodeID        string   `json:"node_id" yaml:"node_id" env:"HM_NODE_ID" env-default:"wear"`
	EnableListen  bool     `json:"enable_listener" yaml:"enable_listener" env:"HM_KAFKA_LISTEN" env-default:"true"`
	BreakerMaxReq uint32   `json:"breaker_max_requests" yaml:"breaker_max_requests" env:"HM_BREAKER_MAX_REQUESTS" env-default:"5"`
}

// StorageConfig - выбор хранилища измерений и предсказаний
type StorageConfig struct {
	Driver           string `json:"driver" yaml:"driver" env:"HM_STORAGE_DRIVER" env-default:"memory"`
	AWSRegion        string `json:"aws_region" yaml:"aws_region" env:"AWS_REGION" env-default:"us-west-2"`
	SamplesTable     string `json:"samples_table" yaml:"samples_table" env:"HM_SAMPLES_TABLE" env-default:"heart_rate_data"`
	PredictionsTable string `json:"predictions_table" yaml:"predictions_table" env:"HM_PREDICTIONS_TABLE" env-default:"stress_predictions"`
	DynamoDBEndpoint string `json:"dynamodb_endpoint" yaml:"dynamodb_endpoint" env:"HM_DYNAMODB_ENDPOINT"`
}

// StressConfig - пакетная оценка стресса по HRV
type StressConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled" env:"HM_STRESS_ENABLED" env-default:"true"`
	Interval      time.Duration `json:"interval" yaml:"interval" env:"HM_STRESS_INTERVAL" env-default:"1h"`
	LookbackHours int           `json:"lookback_hours" yaml:"lookback_hours" env:"HM_STRESS_HOURS" env-default:"1"`
	WindowMinutes int           `json:"window_minutes" yaml:"window_minutes" env:"HM_STRESS_WINDOW" env-default:"5"`
	ModelPath     string        `json:"model_path" yaml:"model_path" env:"HM_STRESS_MODEL"`
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level      string `json:"level" yaml:"level" env:"HM_LOG_LEVEL" env-default:"info"`
	Format     string `json:"format" yaml:"format" env:"HM_LOG_FORMAT" env-default:"console"`
	Output     string `json:"output" yaml:"output" env:"HM_LOG_OUTPUT" env-default:"stderr"`
	FilePath   string `json:"file_path" yaml:"file_path" env:"HM_LOG_FILE_PATH" env-default:"logs/healmind.log"`
	MaxSize    int    `json:"max_size" yaml:"max_size" env:"HM_LOG_MAX_SIZE" env-default:"100"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" env:"HM_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int    `json:"max_age" yaml:"max_age" env:"HM_LOG_MAX_AGE" env-default:"7"`
	Compress   bool   `json:"compress" yaml:"compress" env:"HM_LOG_COMPRESS" env-default:"true"`
}

// LoadConfiguration загружает конфигурацию из файла HM_CONFIG (или config.yaml).
// Если файла нет, конфигурация собирается только из переменных окружения.
func LoadConfiguration() (*AppConfig, error) {
	path := os.Getenv("HM_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFromFile(path)
}

// LoadFromFile загружает конфигурацию из указанного файла с переопределением из окружения.
func LoadFromFile(path string) (*AppConfig, error) {
	var cfg AppConfig

	if _, statErr := os.Stat(path); statErr == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
				fmt.Sprintf("не удалось прочитать конфигурацию из %s", path), err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConfigLoad,
			"не удалось прочитать конфигурацию из окружения", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные значения.
func (c *AppConfig) Validate() error {
	invalid := func(msg string) error {
		return apperrors.NewAppError(apperrors.ErrConfigValidate, msg, nil)
	}

	if c.ServerPort == "" {
		return invalid("server_port обязателен")
	}
	if c.Tracking.Interval <= 0 {
		return invalid("tracking.interval должен быть положительным")
	}
	if c.Tracking.MaxValues <= 0 {
		return invalid("tracking.max_values должен быть положительным")
	}
	if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
		return invalid("kafka.brokers и kafka.topic обязательны")
	}
	switch c.Storage.Driver {
	case StorageMemory, StorageDynamoDB:
	default:
		return invalid(fmt.Sprintf("неизвестный storage.driver %q", c.Storage.Driver))
	}
	if c.Stress.WindowMinutes <= 0 || c.Stress.LookbackHours <= 0 {
		return invalid("stress.window_minutes и stress.lookback_hours должны быть положительными")
	}
	if c.Stress.Enabled && c.Stress.Interval <= 0 {
		return invalid("stress.interval должен быть положительным")
	}
	return nil
}

// IsProduction сообщает, запущено ли приложение в production окружении.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// LoggingOptions переводит LoggingConfig в настройки пакета logging.
func (c *AppConfig) LoggingOptions() logging.Config {
	opts := logging.DefaultConfig()
	if c.Logging.Level != "" {
		opts.Level = c.Logging.Level
	}
	if c.Logging.Format != "" {
		opts.Format = c.Logging.Format
	}
	if c.Logging.Output != "" {
		opts.Output = c.Logging.Output
	}
	if c.Logging.FilePath != "" {
		opts.FilePath = c.Logging.FilePath
	}
	if c.Logging.MaxSize > 0 {
		opts.MaxSize = c.Logging.MaxSize
	}
	if c.Logging.MaxBackups > 0 {
		opts.MaxBackups = c.Logging.MaxBackups
	}
	if c.Logging.MaxAge > 0 {
		opts.MaxAge = c.Logging.MaxAge
	}
	opts.Compress = c.Logging.Compress
	return opts
}
