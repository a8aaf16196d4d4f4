package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load applies struct `default:"..."` tags, then reads the YAML document at
// path over them (so the document wins for any field it sets), then
// overlays `env:"..."` variables where present — the same three-layer
// order (defaults, then file, then environment) the teacher's own config
// loader used.
func Load(path string) (Config, error) {
	var cfg Config
	applyDefaults(reflect.ValueOf(&cfg).Elem())

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnv(reflect.ValueOf(&cfg).Elem())

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults walks struct fields recursively, setting each zero-valued
// field to its `default` tag if present.
func applyDefaults(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			applyDefaults(fv)
			continue
		}
		def, ok := field.Tag.Lookup("default")
		if !ok || !fv.IsZero() {
			continue
		}
		setFromString(fv, def)
	}
}

// applyEnv overlays any `env` tag whose variable is set in the process
// environment, recursing into nested structs.
func applyEnv(v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			applyEnv(fv)
			continue
		}
		name, ok := field.Tag.Lookup("env")
		if !ok {
			continue
		}
		if val, present := os.LookupEnv(name); present {
			setFromString(fv, val)
		}
	}
}

func setFromString(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int64:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			fv.SetInt(n)
		}
	case reflect.Float64, reflect.Float32:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(f)
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	}
}
