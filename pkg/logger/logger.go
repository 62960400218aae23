package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер приложения.
var Log *logrus.Logger

// Init настраивает глобальный логгер. Вызывается один раз из main.
// LOG_LEVEL: trace|debug|info|warn|error (по умолчанию info).
// LOG_FORMAT: json для продакшена, иначе цветной text.
func Init() {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// InitQuiet - вариант для тестов и симуляций реплея: всё в io.Discard,
// чтобы детерминированные прогоны не шумели в вывод тестов.
func InitQuiet() {
	Log = logrus.New()
	Log.SetLevel(logrus.PanicLevel)
	Log.SetOutput(io.Discard)
}
