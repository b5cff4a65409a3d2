package resource

import (
	"log"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"
)

const defaultPropertiesPath = "configs/application.yml"

var (
	props      = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// Load reads the properties file named by PROPERTIES_FILE_PATH, falling back to configs/application.yml
func Load() {
	var value, ok = os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		value = defaultPropertiesPath
	}
	Init(value)
}

// Init loads application properties from a YAML file, resolving ${ENV:default} placeholders
func Init(filepath string) {
	if err := InitE(filepath); err != nil {
		log.Fatalf("Fail to read properties: %v", err)
	}
}

// InitE is Init returning the error instead of exiting
func InitE(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	properties := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), properties)

	if err := v.MergeConfigMap(properties); err != nil {
		return err
	}

	props = v
	return nil
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(v)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case map[string]interface{}:
			parsePropertiesMap(fullKey, v, result)
		case []interface{}:
			result[fullKey] = v
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable checks if the value is an environment variable pattern and resolves it
func resolveEnvVariable(value string) interface{} {
	matches := envPattern.FindStringSubmatch(value)
	if len(matches) == 0 {
		return value
	}

	envName := matches[1]
	defaultValue := ""
	if len(matches) > 2 {
		defaultValue = matches[2]
	}

	if envValue, exists := os.LookupEnv(envName); exists {
		return envValue
	}
	return defaultValue
}

// Set overrides a property, mostly useful in tests
func Set(key string, value any) {
	props.Set(key, value)
}

func Get(key string) any {
	return props.Get(key)
}

func GetString(key string) string {
	return props.GetString(key)
}

// GetStringOrDefault returns the property or defaultValue when it is empty
func GetStringOrDefault(key, defaultValue string) string {
	if value := props.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func GetBool(key string) bool {
	return props.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return props.GetDuration(key)
}

func GetInt(key string) int {
	return props.GetInt(key)
}

func GetInt64(key string) int64 {
	return props.GetInt64(key)
}

func GetStringSlice(key string) []string {
	return props.GetStringSlice(key)
}

// UnmarshalKey decodes a nested property (for example a list of objects) into target
func UnmarshalKey(key string, target any) error {
	return props.UnmarshalKey(key, target)
}
