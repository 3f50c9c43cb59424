package config

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Struct tags driving bind:
//
//	env:"KEY"          variable name
//	envDefault:"VAL"   value used when KEY is absent
//	decode:"newlines"  decode literal \n before assignment
const (
	tagEnv        = "env"
	tagEnvDefault = "envDefault"
	tagDecode     = "decode"
)

// Setting is one row of the defaults table.
type Setting struct {
	Key     string `json:"key"`
	Default string `json:"default"`
	Field   string `json:"field"`
	Type    string `json:"type"`
}

// DefaultsTable lists every environment-backed setting with its default.
func DefaultsTable() []Setting {
	var out []Setting
	for _, v := range []any{CredentialConfig{}, TradingLimitsConfig{}, LearningConfig{}} {
		out = append(out, settingsOf(reflect.TypeOf(v))...)
	}
	return out
}

func settingsOf(t reflect.Type) []Setting {
	out := make([]Setting, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get(tagEnv)
		if key == "" {
			continue
		}
		out = append(out, Setting{
			Key:     key,
			Default: f.Tag.Get(tagEnvDefault),
			Field:   f.Name,
			Type:    typeName(f.Type.Kind()),
		})
	}
	return out
}

// bind fills the env-tagged fields of the struct pointed to by target.
func bind(src Source, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: target must be a struct pointer, got %T", target)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := f.Tag.Get(tagEnv)
		if key == "" {
			continue
		}

		raw := src.Get(key, f.Tag.Get(tagEnvDefault))
		if f.Tag.Get(tagDecode) == "newlines" {
			raw = DecodeNewlines(raw)
		}

		if err := assign(v.Field(i), key, raw); err != nil {
			return err
		}
	}
	return nil
}

func assign(field reflect.Value, key, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return &ParseError{Key: key, Value: raw, Type: "float", Err: err}
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return &ParseError{Key: key, Value: raw, Type: "float", Err: ErrNotFinite}
		}
		field.SetFloat(n)
	case reflect.Int:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return &ParseError{Key: key, Value: raw, Type: "int", Err: err}
		}
		field.SetInt(int64(n))
	default:
		return fmt.Errorf("bind %s: unsupported kind %s", key, field.Kind())
	}
	return nil
}

func typeName(k reflect.Kind) string {
	switch k {
	case reflect.Float64:
		return "float"
	case reflect.Int:
		return "int"
	default:
		return k.String()
	}
}
