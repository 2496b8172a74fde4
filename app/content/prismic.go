package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"spacetraveling/app/models"

	"github.com/sirupsen/logrus"
)

const userAgent = "spacetraveling/1.0"

var log = logrus.WithField("component", "content")

// identPattern matches the document types and uids that may be put in a
// query predicate.
var identPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// PrismicClient implements Client against the Prismic REST API (v2).
type PrismicClient struct {
	endpoint    *url.URL
	accessToken string
	pageSize    int
	httpClient  *http.Client
}

// apiInfo is the subset of the API root response we need.
type apiInfo struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}

// NewPrismicClient creates a client for the repository API endpoint, e.g.
// https://my-repo.cdn.prismic.io/api/v2. pageSize <= 0 keeps the API default.
func NewPrismicClient(endpoint, accessToken string, pageSize int, timeout time.Duration) (*PrismicClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host are required", endpoint)
	}
	return &PrismicClient{
		endpoint:    u,
		accessToken: accessToken,
		pageSize:    pageSize,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// ListDocuments returns the first page of documents of docType.
func (c *PrismicClient) ListDocuments(ctx context.Context, docType string) (*models.Page, error) {
	if !identPattern.MatchString(docType) {
		return nil, fmt.Errorf("invalid document type %q", docType)
	}
	query := fmt.Sprintf(`[[at(document.type,"%s")]]`, docType)
	return c.search(ctx, query, c.pageSize)
}

// GetDocumentByUID returns the single document of docType identified by uid.
// Uids outside the URL-safe alphabet cannot exist and are not sent.
func (c *PrismicClient) GetDocumentByUID(ctx context.Context, docType, uid string) (*models.Document, error) {
	if !identPattern.MatchString(docType) {
		return nil, fmt.Errorf("invalid document type %q", docType)
	}
	if !identPattern.MatchString(uid) {
		return nil, fmt.Errorf("%s %q: %w", docType, uid, ErrNotFound)
	}
	query := fmt.Sprintf(`[[at(my.%s.uid,"%s")]]`, docType, uid)
	page, err := c.search(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("%s %q: %w", docType, uid, ErrNotFound)
	}
	return &page.Results[0], nil
}

// FetchPage follows a next_page cursor returned by an earlier query.
func (c *PrismicClient) FetchPage(ctx context.Context, cursor string) (*models.Page, error) {
	u, err := url.Parse(cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForeignCursor, err)
	}
	if u.Scheme != c.endpoint.Scheme || u.Host != c.endpoint.Host {
		return nil, ErrForeignCursor
	}

	var page models.Page
	if err := c.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *PrismicClient) search(ctx context.Context, query string, pageSize int) (*models.Page, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}

	u := c.endpoint.JoinPath("documents", "search")
	q := url.Values{}
	q.Set("ref", ref)
	q.Set("q", query)
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if c.accessToken != "" {
		q.Set("access_token", c.accessToken)
	}
	u.RawQuery = q.Encode()

	var page models.Page
	if err := c.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// masterRef resolves the ref of the currently published content. It is looked
// up on every query so newly published documents show up after revalidation.
func (c *PrismicClient) masterRef(ctx context.Context) (string, error) {
	u := *c.endpoint
	if c.accessToken != "" {
		q := url.Values{}
		q.Set("access_token", c.accessToken)
		u.RawQuery = q.Encode()
	}

	var info apiInfo
	if err := c.getJSON(ctx, &u, &info); err != nil {
		return "", fmt.Errorf("failed to resolve master ref: %w", err)
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", fmt.Errorf("api at %s has no master ref", c.endpoint.Redacted())
}

func (c *PrismicClient) getJSON(ctx context.Context, u *url.URL, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u.Path, err)
	}
	defer resp.Body.Close()

	log.WithFields(logrus.Fields{
		"path":     u.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("content api request")

	// A 404 here means a wrong endpoint or ref, never a missing document:
	// lookups that match nothing still answer 200 with no results.
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("content api returned %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u.Path, err)
	}
	return nil
}
