package configs

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type EnvConfig struct {
	ApplicationName string
	ContextPath     string
	PropertiesPath  string
}

var Env *EnvConfig

func init() {
	// a missing .env is fine: the process environment is used as is
	_ = godotenv.Load()

	viper.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName: getStringOrDefault("APPLICATION_NAME", "weather-relay"),
		ContextPath:     getStringOrDefault("CONTEXT_PATH", "/weather-relay"),
		PropertiesPath:  getStringOrDefault("PROPERTIES_FILE_PATH", "configs/application.yml"),
	}
}

func getStringOrDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
