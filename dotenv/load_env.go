package dotenv

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// LoadEnv loads environment variables from the given files. Without
// arguments it reads ".env" from the working directory and silently skips it
// when absent; explicitly named files must exist.
func LoadEnv(envPath ...string) error {
	optional := len(envPath) == 0
	if optional {
		envPath = append(envPath, ".env")
	}

	for _, filename := range envPath {
		content, err := os.ReadFile(filename)
		if optional && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}

		if err := LoadEnvFromString(string(content)); err != nil {
			return err
		}
	}

	return nil
}

// LoadEnvFromString parses KEY=VALUE lines. Blank lines and lines starting
// with '#' are skipped; everything after the first '=' is the value.
func LoadEnvFromString(env string) error {
	for _, line := range strings.Split(env, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		if err := os.Setenv(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}

	return nil
}
