package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// appFieldHook tags every entry with the service name.
type appFieldHook struct {
	app string
}

func (h *appFieldHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *appFieldHook) Fire(entry *logrus.Entry) error {
	if _, set := entry.Data["app"]; !set {
		entry.Data["app"] = h.app
	}
	return nil
}

// InitLogger configures the shared logger. LOG_LEVEL picks the level and
// LOG_FORMAT=json switches to structured output for log shippers.
func InitLogger(appName string) {
	Logger.SetOutput(os.Stdout)

	level := logrus.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(raw))
		if err != nil {
			Logger.Warnf("Invalid LOG_LEVEL %q, using info", raw)
		} else {
			level = parsed
		}
	}
	Logger.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	Logger.AddHook(&appFieldHook{app: appName})
}
