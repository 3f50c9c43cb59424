package config

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the nested key/value form of a snapshot.
type Document map[string]map[string]any

const redactedValue = "[REDACTED]"

// secretFields are masked by SerializeRedacted.
var secretFields = []string{"privateKey", "privateKeyId", "clientId"}

// Snapshot is the immutable configuration published by a Registry.
// Accessors return copies; nothing reachable from a Snapshot mutates it.
type Snapshot struct {
	credential CredentialConfig
	limits     TradingLimitsConfig
	learning   LearningConfig
	validation ValidationResult
}

// NewSnapshot composes the structured configs and validates the credential.
func NewSnapshot(cred CredentialConfig, limits TradingLimitsConfig, learning LearningConfig) *Snapshot {
	return &Snapshot{
		credential: cred,
		limits:     limits.clone(),
		learning:   learning,
		validation: cred.Validate(),
	}
}

func (s *Snapshot) Credential() CredentialConfig { return s.credential }

func (s *Snapshot) Limits() TradingLimitsConfig { return s.limits.clone() }

func (s *Snapshot) Learning() LearningConfig { return s.learning }

// CredentialsValid reports whether collaborators may use the credential.
func (s *Snapshot) CredentialsValid() bool { return s.validation.OK() }

// CredentialValidation returns the problems found at construction.
func (s *Snapshot) CredentialValidation() ValidationResult {
	return ValidationResult{Problems: slices.Clone(s.validation.Problems)}
}

// Serialize returns every field under credential, limits and learning.
// Secrets are included as-is.
func (s *Snapshot) Serialize() Document {
	return Document{
		"credential": fieldsOf(s.credential),
		"limits":     fieldsOf(s.limits),
		"learning":   fieldsOf(s.learning),
	}
}

// SerializeRedacted is Serialize with secret credential fields masked.
func (s *Snapshot) SerializeRedacted() Document {
	doc := s.Serialize()
	for _, k := range secretFields {
		if v, _ := doc["credential"][k].(string); v != "" {
			doc["credential"][k] = redactedValue
		}
	}
	return doc
}

// Encode writes the document as YAML.
func (s *Snapshot) Encode(w io.Writer, redacted bool) error {
	doc := s.Serialize()
	if redacted {
		doc = s.SerializeRedacted()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

// MarshalYAML emits the redacted document so a snapshot never leaks secrets
// through incidental yaml.Marshal calls.
func (s *Snapshot) MarshalYAML() (interface{}, error) {
	return s.SerializeRedacted(), nil
}

func fieldsOf(v any) map[string]any {
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name := strings.SplitN(rt.Field(i).Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		fv := rv.Field(i).Interface()
		if ss, ok := fv.([]string); ok {
			fv = slices.Clone(ss)
		}
		out[name] = fv
	}
	return out
}
