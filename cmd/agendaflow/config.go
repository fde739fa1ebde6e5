package main

import (
	"fmt"
	"strings"

	"github.com/louro2023/agendaflow/internal/logger"
	"github.com/louro2023/agendaflow/internal/rabbit"
	internalhttp "github.com/louro2023/agendaflow/internal/server/http"
	"github.com/louro2023/agendaflow/internal/storagebuilder"
	"github.com/spf13/viper"
)

const envConfigPrefix = "$env:"

type ScheduleConfig struct {
	MinGapMinutes int
}

type Config struct {
	Server   internalhttp.Config
	Logger   logger.Config
	Storage  storagebuilder.Config
	Schedule ScheduleConfig
	Rabbit   rabbit.Config
}

func NewConfig(configFile string) (Config, error) {
	config := Config{}
	viper.SetConfigFile(configFile)

	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", "8005")
	viper.SetDefault("logger.level", "WARN")
	viper.SetDefault("storage.storageType", "memory")
	viper.SetDefault("storage.file.path", "./db.json")
	viper.SetDefault("schedule.minGapMinutes", 120)
	viper.SetDefault("rabbit.enabled", false)
	viper.SetDefault("rabbit.host", "127.0.0.1")
	viper.SetDefault("rabbit.port", "5672")
	viper.SetDefault("rabbit.user", "user")
	viper.SetDefault("rabbit.password", "pass")
	viper.SetDefault("rabbit.queue", "agendaflow.decisions")

	err := viper.ReadInConfig()
	if err != nil {
		return config, fmt.Errorf("failed to read config %q: %w", configFile, err)
	}
	keys := viper.AllKeys()
	for _, key := range keys {
		env := viper.GetString(key)
		if strings.HasPrefix(env, envConfigPrefix) {
			err := viper.BindEnv(key, env[len(envConfigPrefix):])
			if err != nil {
				return Config{}, fmt.Errorf("failed to prepare config: %w", err)
			}
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return config, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return config, nil
}
