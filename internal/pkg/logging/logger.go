// Package logging создаёт zap.Logger по конфигурации приложения.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Поддерживаемые форматы вывода логов.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Поддерживаемые типы вывода логов.
const (
	OutputStderr = "stderr"
	OutputFile   = "file"
)

// Значения по умолчанию для Config.
const (
	DefaultLevel      = "info"
	DefaultFormat     = FormatConsole
	DefaultOutput     = OutputStderr
	DefaultFilePath   = "logs/healmind.log"
	DefaultMaxSize    = 100 // MB
	DefaultMaxBackups = 3
	DefaultMaxAge     = 7 // days
	DefaultCompress   = true
)

// Config содержит настройки логирования.
type Config struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// DefaultConfig возвращает Config со значениями по умолчанию.
func DefaultConfig() Config {
	return Config{
		Level:      DefaultLevel,
		Format:     DefaultFormat,
		Output:     DefaultOutput,
		FilePath:   DefaultFilePath,
		MaxSize:    DefaultMaxSize,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAge,
		Compress:   DefaultCompress,
	}
}

// NewLogger создаёт логгер. При Output="file" пишет в файл с ротацией через lumberjack.
func NewLogger(cfg Config) *zap.Logger {
	var w io.Writer

	switch cfg.Output {
	case OutputFile:
		w = newLumberjackWriter(cfg)
	case OutputStderr, "":
		w = os.Stderr
	default:
		_, _ = fmt.Fprintf(os.Stderr, "WARNING: неизвестный logging output %q, используется stderr\n", cfg.Output)
		w = os.Stderr
	}

	return NewLoggerWithWriter(cfg, w)
}

// newLumberjackWriter при пустом FilePath или ошибке создания директории возвращает os.Stderr.
func newLumberjackWriter(cfg Config) io.Writer {
	if cfg.FilePath == "" {
		_, _ = os.Stderr.WriteString("WARNING: logging output=file без filePath, используется stderr\n")
		return os.Stderr
	}

	dir := filepath.Dir(cfg.FilePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "WARNING: не удалось создать директорию логов %q: %v\n", dir, err)
			return os.Stderr
		}
	}

	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// NewLoggerWithWriter создаёт логгер, пишущий в w. Используется в тестах.
func NewLoggerWithWriter(cfg Config, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case FormatJSON:
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller())
}

// ParseLevel конвертирует строковый уровень. Неизвестное значение даёт info.
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
