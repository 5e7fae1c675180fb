// Package config loads typed service configuration from defaults, an
// optional YAML file, a .env file and the process environment, in that
// order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Validator is implemented by config structs with cross-field checks that
// struct tags cannot express.
type Validator interface {
	Validate() error
}

var validate = validator.New()

// Options controls where Load looks. Zero values use the conventions:
// env prefix "<SERVICE>_", YAML path from "<SERVICE>_CONFIG" or
// "config.yaml", and ".env" in the working directory.
type Options struct {
	EnvPrefix string
	File      string
	DotEnv    string
	Environ   func() []string
}

// Load builds a T for service. Keys are dot-separated and lower case;
// STOREFRONT_HTTP_ADDR maps to http.addr.
func Load[T Validator](service string, defaults map[string]any, opts Options) (T, error) {
	var cfg T
	k := koanf.New(".")

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = strings.ToUpper(service) + "_"
	}
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ
	}
	envMap := parseEnviron(environ())

	path := opts.File
	if path == "" {
		path = envMap[prefix+"CONFIG"]
	}
	if path == "" {
		path = "config.yaml"
	}
	dotEnv := opts.DotEnv
	if dotEnv == "" {
		dotEnv = ".env"
	}

	keyOf := func(key string) string {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(prefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", path, err)
	}

	if fromFile, err := godotenv.Read(dotEnv); err == nil {
		m := make(map[string]any, len(fromFile))
		for key, value := range fromFile {
			if strings.HasPrefix(key, prefix) {
				m[keyOf(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return cfg, fmt.Errorf("load %s: %w", dotEnv, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("read %s: %w", dotEnv, err)
	}

	if opts.Environ == nil {
		if err := k.Load(env.Provider(prefix, ".", keyOf), nil); err != nil {
			return cfg, fmt.Errorf("load environment: %w", err)
		}
	} else {
		m := make(map[string]any)
		for key, value := range envMap {
			if strings.HasPrefix(key, prefix) {
				m[keyOf(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return cfg, fmt.Errorf("load environment: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func parseEnviron(kv []string) map[string]string {
	out := make(map[string]string, len(kv))
	for _, e := range kv {
		if k, v, ok := strings.Cut(e, "="); ok {
			out[k] = v
		}
	}
	return out
}
