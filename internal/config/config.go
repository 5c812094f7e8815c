package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file in the working directory or its
// parent, if one exists. Variables already set in the environment win. It returns the
// loaded file, or an empty string when none was found.
func LoadEnv() string {
	var loaded string
	envOnce.Do(func() {
		for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
			if _, err := os.Stat(envFile); err != nil {
				continue
			}
			if err := godotenv.Load(envFile); err != nil {
				return
			}
			loaded = envFile
			return
		}
	})
	return loaded
}

// TableFor returns the table mapped to a collection.
func (c *Config) TableFor(collection string) (string, bool) {
	table, ok := c.Collections[collection]
	return table, ok
}
