package mock

import (
	"context"
	"sync"

	"spacetraveling/app/models"
	"spacetraveling/app/repositories"
)

// PageRepository is an in-memory repositories.PageRepository.
type PageRepository struct {
	pages map[string]*models.RenderedPage
	err   error
	mutex sync.RWMutex
}

func NewPageRepository() *PageRepository {
	return &PageRepository{
		pages: make(map[string]*models.RenderedPage),
	}
}

// SetError makes every following call fail with err. Pass nil to reset.
func (m *PageRepository) SetError(err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.err = err
}

func (m *PageRepository) Get(ctx context.Context, path string) (*models.RenderedPage, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.err != nil {
		return nil, m.err
	}
	page, exists := m.pages[path]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *page
	return &copied, nil
}

func (m *PageRepository) Put(ctx context.Context, page *models.RenderedPage) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.err != nil {
		return m.err
	}
	if err := page.Validate(); err != nil {
		return err
	}
	copied := *page
	m.pages[page.Path] = &copied
	return nil
}

func (m *PageRepository) Delete(ctx context.Context, path string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.pages[path]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.pages, path)
	return nil
}

func (m *PageRepository) List(ctx context.Context) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	paths := make([]string, 0, len(m.pages))
	for path := range m.pages {
		paths = append(paths, path)
	}
	return paths, nil
}

func (m *PageRepository) Clear(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pages = make(map[string]*models.RenderedPage)
	return nil
}

func (m *PageRepository) Close() error {
	return nil
}
