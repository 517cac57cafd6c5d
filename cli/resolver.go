package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from the
// map under key name of a YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Example file:
//
//	config:
//	  log-level: debug
//	  log_format: json
//	  meta: [metas.yaml, more.yaml]
//
// Keys may use hyphens or underscores. Scalars other than strings and
// booleans are passed to kong in their decimal form.
//
// Command-line flags override config file values.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			// Unreadable config - return empty config
			return config{}, nil
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			// Section missing or not a mapping - return empty config
			return config{}, nil
		}

		result := make(config, len(section))
		for k, v := range section {
			result[k] = flagValue(v)
		}

		return result, nil
	}
}

// flagValue converts a decoded YAML value into a form kong parses.
func flagValue(v any) any {
	switch v := v.(type) {
	case string, bool, nil:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}

		return strings.Join(parts, ",")
	default:
		// Kong requires numbers as strings for parsing
		return fmt.Sprint(v)
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config keys
	// may use underscores. Try both forms.
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
