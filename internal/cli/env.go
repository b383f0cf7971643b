package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// EnvFileVar names an env file that takes precedence over the --env flag.
const EnvFileVar = "POLYGLOT_ENV_FILE"

// EnvLoader applies a .env file to the process environment. Variables that are
// already set win over the file, so container and systemd settings are never
// shadowed by a stale file.
type EnvLoader struct {
	flags       *pflag.FlagSet
	path        string
	defaultPath string
}

// AddEnvFlag registers --env on flags and returns its loader.
func AddEnvFlag(flags *pflag.FlagSet, defaultPath, description string) *EnvLoader {
	if flags == nil {
		flags = pflag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	loader := &EnvLoader{flags: flags, defaultPath: defaultPath}
	flags.StringVar(&loader.path, "env", defaultPath, description)
	return loader
}

// Load applies the selected file and returns its path. The file comes from
// POLYGLOT_ENV_FILE, then --env. A missing file is only an error when it was
// asked for explicitly; the default location returns "".
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	path, explicit := l.resolve()
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load env file %s: %w", path, err)
	}

	for key, value := range values {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return "", fmt.Errorf("set %s from %s: %w", key, path, err)
		}
	}
	return path, nil
}

func (l *EnvLoader) resolve() (string, bool) {
	if custom := strings.TrimSpace(os.Getenv(EnvFileVar)); custom != "" {
		return custom, true
	}
	path := strings.TrimSpace(l.path)
	if path == "" {
		return l.defaultPath, false
	}
	return path, l.flags != nil && l.flags.Changed("env")
}
