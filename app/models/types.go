package models

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Document is a record returned by the content store.
type Document struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid" validate:"required"`
	Type                 string          `json:"type"`
	FirstPublicationDate *string         `json:"first_publication_date"`
	Data                 json.RawMessage `json:"data" validate:"required"`
}

// Page is one page of documents plus the cursor of the next one.
// An empty NextPage means there are no further pages.
type Page struct {
	NextPage string     `json:"next_page"`
	Results  []Document `json:"results"`
}

// PostData holds the type-specific fields of a post document.
type PostData struct {
	Title    string    `json:"title" validate:"required"`
	Subtitle string    `json:"subtitle"`
	Author   string    `json:"author"`
	Banner   Image     `json:"banner"`
	Content  []Section `json:"content"`
}

// Image is a media field. URL is empty when no image was uploaded.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Section is a heading followed by rich text body blocks.
type Section struct {
	Heading string  `json:"heading"`
	Body    []Block `json:"body"`
}

// Block is a single rich text block (paragraph, list item, ...).
type Block struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PostSummary is what the listing page shows for a post.
type PostSummary struct {
	Slug        string     `json:"slug" validate:"required"`
	PublishedAt *time.Time `json:"published_at"`
	Title       string     `json:"title" validate:"required"`
	Subtitle    string     `json:"subtitle"`
	Author      string     `json:"author"`
}

// Post is the full post shown on the detail page.
type Post struct {
	Slug        string     `json:"slug" validate:"required"`
	PublishedAt *time.Time `json:"published_at"`
	Title       string     `json:"title" validate:"required"`
	BannerURL   string     `json:"banner_url,omitempty"`
	Author      string     `json:"author"`
	Content     []Section  `json:"content"`
}
