// Package backup encodes and decodes the Moodmark backup envelope.
//
// A backup is a single JSON document carrying the full library. Collage
// thumbnails are regenerable blobs and are stripped on export to keep files
// small.
package backup

import (
	"time"

	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/moodmarkapp/moodmark-sync/internal/config"
	"github.com/moodmarkapp/moodmark-sync/internal/domain"
	apperrors "github.com/moodmarkapp/moodmark-sync/internal/errors"
	"github.com/moodmarkapp/moodmark-sync/internal/validation"
)

// Version is the backup file format version this build writes.
const Version = "1.0"

// Document is the backup envelope.
type Document struct {
	Version    string  `json:"version" validate:"required"`
	ExportedAt string  `json:"exportedAt" validate:"required"`
	App        string  `json:"app" validate:"required"`
	Data       Payload `json:"data"`
}

// Payload holds the library records inside the envelope.
type Payload struct {
	Books    []*domain.Book    `json:"books"`
	Collages []*domain.Collage `json:"collages"`
}

// Export builds a backup document from the library. Collage thumbnails are
// dropped; the canvas document they render from is kept.
func Export(books []*domain.Book, collages []*domain.Collage) *Document {
	stripped := make([]*domain.Collage, 0, len(collages))
	for _, c := range collages {
		cc := *c
		cc.Thumbnail = nil
		stripped = append(stripped, &cc)
	}

	return &Document{
		Version:    Version,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		App:        config.AppTag,
		Data: Payload{
			Books:    books,
			Collages: stripped,
		},
	}
}

// Encode serializes a backup document to indented JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d, jsontext.WithIndent("  "))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "encode backup")
	}
	return data, nil
}

// Parse decodes and validates a backup file. Malformed JSON, missing envelope
// fields, and backups from other applications are all rejected as validation
// errors; nothing is written before these checks pass.
func Parse(content []byte, v *validation.Validator) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, apperrors.Validation("invalid JSON: not a Moodmark backup file")
	}

	if err := v.Validate(&doc); err != nil {
		return nil, err
	}

	if doc.App != config.AppTag {
		return nil, apperrors.Validationf("backup is from %q, not %s", doc.App, config.AppTag)
	}

	return &doc, nil
}
