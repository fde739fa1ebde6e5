package logger

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	Level string
}

// PrepareLogger configures the global logrus logger from config.
func PrepareLogger(config Config) error {
	level, err := log.ParseLevel(config.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level %q: %w", config.Level, err)
	}
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	return nil
}
