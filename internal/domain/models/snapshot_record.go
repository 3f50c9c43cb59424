package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"ACATN/pkg/config"

	"github.com/google/uuid"
)

// SnapshotRecord is the audit form of a published configuration snapshot.
// Document is always the redacted serialization.
type SnapshotRecord struct {
	ID               string                `json:"id"`
	Host             string                `json:"host"`
	PublishedAt      time.Time             `json:"published_at"`
	Fingerprint      string                `json:"fingerprint"`
	CredentialsValid bool                  `json:"credentials_valid"`
	Problems         []config.FieldProblem `json:"problems,omitempty"`
	Document         config.Document       `json:"document"`
}

// NewSnapshotRecord builds an audit record for s. The fingerprint depends only
// on the redacted document, so identical deployments share it.
func NewSnapshotRecord(s *config.Snapshot, host string, now time.Time) (*SnapshotRecord, error) {
	doc := s.SerializeRedacted()
	canonical, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(canonical)

	return &SnapshotRecord{
		ID:               uuid.NewString(),
		Host:             host,
		PublishedAt:      now.UTC(),
		Fingerprint:      hex.EncodeToString(sum[:]),
		CredentialsValid: s.CredentialsValid(),
		Problems:         s.CredentialValidation().Problems,
		Document:         doc,
	}, nil
}
