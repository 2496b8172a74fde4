package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Layouts accepted for publication timestamps. The content API emits the
// first one; RFC 3339 is accepted for hand-written fixtures.
var timestampLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

// Validate checks the document has the fields every page needs.
func (d *Document) Validate() error {
	return validate.Struct(d)
}

// PublishedAt parses the first publication date. A nil result with a nil
// error means the document was never published.
func (d *Document) PublishedAt() (*time.Time, error) {
	if d.FirstPublicationDate == nil || *d.FirstPublicationDate == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *d.FirstPublicationDate); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid first_publication_date %q", *d.FirstPublicationDate)
}

// PostData decodes the type-specific fields of a post document.
func (d *Document) PostData() (*PostData, error) {
	if len(d.Data) == 0 {
		return nil, errors.New("document has no data")
	}
	var data PostData
	if err := json.Unmarshal(d.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode data of %q: %w", d.UID, err)
	}
	return &data, nil
}
