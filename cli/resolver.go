package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/spipe/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML mapping of flag
// names to values:
//
//	log-level: debug
//	log-format: json
//	log-pretty: false
//	name-and-then: then
//
// Flag names may also be written with underscores (log_level). Keys that do
// not name a flag are ignored, as are malformed files. Command-line flags
// override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	var values map[string]any

	err := yaml.NewDecoder(r).Decode(&values)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("ignoring malformed configuration",
			slog.String("format", "yaml"),
			slog.String("error", err.Error()))

		return config{}, nil
	}

	return makeConfig(values), nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// makeConfig normalizes the keys and scalar values of a decoded document.
// Kong parses numbers from strings, so numeric values are stored in their
// decimal form.
func makeConfig(values map[string]any) config {
	c := make(config, len(values))

	for key, value := range values {
		key = strings.ReplaceAll(key, "_", "-")

		switch v := value.(type) {
		case int, int64, uint64, float64:
			c[key] = fmt.Sprint(v)

		default:
			c[key] = v
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
