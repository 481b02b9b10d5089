package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	Handle     string
	HandleFile string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("WORDLOBBY_SERVER", "http://localhost:8080"),
		Handle:     os.Getenv("WORDLOBBY_HANDLE"),
		HandleFile: getEnvOrDefault("WORDLOBBY_HANDLE_FILE", defaultHandleFile()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadHandle reads the player handle from file if not already set
func (c *Config) LoadHandle() error {
	if c.Handle != "" {
		return nil
	}

	data, err := os.ReadFile(c.HandleFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // not initialised yet
		}
		return err
	}

	c.Handle = strings.TrimSpace(string(data))
	return nil
}

// SaveHandle writes the player handle to the handle file
func (c *Config) SaveHandle(handle string) error {
	c.Handle = handle

	dir := filepath.Dir(c.HandleFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.HandleFile, []byte(handle), 0600)
}

func defaultHandleFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wordlobby/handle"
	}
	return filepath.Join(home, ".wordlobby", "handle")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
