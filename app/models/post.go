package models

import (
	"fmt"
	"strings"
)

// NewPostSummary builds a listing card from a post document.
func NewPostSummary(doc *Document) (*PostSummary, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	data, err := doc.PostData()
	if err != nil {
		return nil, err
	}
	published, err := doc.PublishedAt()
	if err != nil {
		return nil, err
	}

	summary := &PostSummary{
		Slug:        doc.UID,
		PublishedAt: published,
		Title:       data.Title,
		Subtitle:    data.Subtitle,
		Author:      data.Author,
	}
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post %q: %w", doc.UID, err)
	}
	return summary, nil
}

// NewPost builds the detail view model from a post document.
func NewPost(doc *Document) (*Post, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	data, err := doc.PostData()
	if err != nil {
		return nil, err
	}
	published, err := doc.PublishedAt()
	if err != nil {
		return nil, err
	}

	post := &Post{
		Slug:        doc.UID,
		PublishedAt: published,
		Title:       data.Title,
		BannerURL:   data.Banner.URL,
		Author:      data.Author,
		Content:     data.Content,
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post %q: %w", doc.UID, err)
	}
	return post, nil
}

// Validate checks if the summary meets all validation requirements
func (p *PostSummary) Validate() error {
	return validate.Struct(p)
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// HasBanner reports whether the post has a banner image to show.
func (p *Post) HasBanner() bool {
	return p.BannerURL != ""
}

// Text joins the text of every body block with a single space.
func (s Section) Text() string {
	texts := make([]string, len(s.Body))
	for i, b := range s.Body {
		texts[i] = b.Text
	}
	return strings.Join(texts, " ")
}
