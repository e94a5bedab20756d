package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Environment string
	Port        string
	FPS         int
	Lesson      string
	Preset      string
	// Origins are the browser origins allowed outside development.
	Origins     []string
}

// LoadServer reads the frame server settings from the environment, loading
// a .env file first if one exists.
func LoadServer() *ServerConfig {
	godotenv.Load()

	return &ServerConfig{
		Environment: getEnv("PHYSBOX_ENV", "development"),
		Port:        getEnv("PHYSBOX_PORT", "8080"),
		FPS:         getEnvInt("PHYSBOX_FPS", 60),
		Lesson:      getEnv("PHYSBOX_LESSON", "freefall"),
		Preset:      getEnv("PHYSBOX_PRESET", ""),
		Origins:     getEnvList("PHYSBOX_ORIGINS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
