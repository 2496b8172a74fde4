package models

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// RenderedPage is the generated output of one route.
type RenderedPage struct {
	Path        string    `json:"path" validate:"required"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	ETag        string    `json:"etag"`
	GeneratedAt time.Time `json:"generated_at" validate:"required"`
}

// NewRenderedPage wraps freshly generated HTML for path.
func NewRenderedPage(path string, body []byte, generatedAt time.Time) *RenderedPage {
	sum := blake2b.Sum256(body)
	return &RenderedPage{
		Path:        path,
		Body:        body,
		ContentType: "text/html; charset=utf-8",
		ETag:        `"` + hex.EncodeToString(sum[:16]) + `"`,
		GeneratedAt: generatedAt,
	}
}

// Validate checks if the page meets all validation requirements
func (p *RenderedPage) Validate() error {
	return validate.Struct(p)
}

// Stale reports whether the page is older than maxAge at now.
func (p *RenderedPage) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(p.GeneratedAt) >= maxAge
}
