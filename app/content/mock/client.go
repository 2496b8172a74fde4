package mock

import (
	"context"
	"fmt"
	"sync"

	"spacetraveling/app/content"
	"spacetraveling/app/models"
)

// Client is an in-memory content.Client. Pages are chained through cursors of
// the form "mock://page/N".
type Client struct {
	pages     map[string][]*models.Page
	cursors   map[string]*models.Page
	documents map[string]*models.Document
	err       error
	calls     map[string]int
	mutex     sync.RWMutex
}

func NewClient() *Client {
	return &Client{
		pages:     make(map[string][]*models.Page),
		cursors:   make(map[string]*models.Page),
		documents: make(map[string]*models.Document),
		calls:     make(map[string]int),
	}
}

// AddPages registers the pages returned for docType, first to last. Cursors
// linking them are assigned here and every document becomes fetchable by uid.
func (m *Client) AddPages(docType string, results ...[]models.Document) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	pages := make([]*models.Page, len(results))
	for i := range results {
		pages[i] = &models.Page{Results: results[i]}
	}
	for i, page := range pages {
		if i+1 < len(pages) {
			cursor := fmt.Sprintf("mock://%s/page/%d", docType, i+2)
			page.NextPage = cursor
			m.cursors[cursor] = pages[i+1]
		}
		for j := range page.Results {
			doc := page.Results[j]
			m.documents[docType+"/"+doc.UID] = &doc
		}
	}
	m.pages[docType] = pages
}

// AddDocument makes a document fetchable by uid without listing it.
func (m *Client) AddDocument(docType string, doc models.Document) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.documents[docType+"/"+doc.UID] = &doc
}

// SetError makes every following call fail with err. Pass nil to reset.
func (m *Client) SetError(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.err = err
}

// Calls returns how many times the named method was invoked.
func (m *Client) Calls(method string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.calls[method]
}

func (m *Client) ListDocuments(ctx context.Context, docType string) (*models.Page, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls["ListDocuments"]++

	if m.err != nil {
		return nil, m.err
	}
	pages := m.pages[docType]
	if len(pages) == 0 {
		return &models.Page{}, nil
	}
	page := *pages[0]
	return &page, nil
}

func (m *Client) GetDocumentByUID(ctx context.Context, docType, uid string) (*models.Document, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls["GetDocumentByUID"]++

	if m.err != nil {
		return nil, m.err
	}
	doc, exists := m.documents[docType+"/"+uid]
	if !exists {
		return nil, fmt.Errorf("%s %q: %w", docType, uid, content.ErrNotFound)
	}
	copied := *doc
	return &copied, nil
}

func (m *Client) FetchPage(ctx context.Context, cursor string) (*models.Page, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.calls["FetchPage"]++

	if m.err != nil {
		return nil, m.err
	}
	page, exists := m.cursors[cursor]
	if !exists {
		return nil, content.ErrForeignCursor
	}
	copied := *page
	return &copied, nil
}
