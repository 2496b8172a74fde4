// Package generate renders pages ahead of time, keeps them in the page cache
// and regenerates them once they are older than the revalidation interval.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spacetraveling/app/content"
	"spacetraveling/app/models"
	"spacetraveling/app/repositories"
	"spacetraveling/app/views"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ListingPath is the route of the listing page.
const ListingPath = "/"

// generateTimeout bounds a generation that outlives the request that started it.
const generateTimeout = time.Minute

// ErrPending is returned when a page that was never generated is still being
// generated after the fallback wait. Callers show the fallback placeholder.
var ErrPending = errors.New("page generation in progress")

var log = logrus.WithField("component", "generate")

// PostPath is the route of the detail page of slug.
func PostPath(slug string) string {
	return "/post/" + slug
}

// PostReader provides the page props.
type PostReader interface {
	ListPosts(ctx context.Context) (views.State, error)
	GetPost(ctx context.Context, slug string) (*models.Post, error)
	ListSlugs(ctx context.Context) ([]string, error)
}

// Options tune a Generator.
type Options struct {
	// Revalidate is the maximum age of a served page.
	Revalidate time.Duration
	// FallbackWait is how long a request for a page that was never generated
	// waits before the fallback placeholder is served instead.
	FallbackWait time.Duration
}

// Generator renders pages and serves them from the page cache.
type Generator struct {
	posts    PostReader
	renderer *views.Renderer
	pages    repositories.PageRepository
	opts     Options
	group    singleflight.Group
	now      func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(posts PostReader, renderer *views.Renderer, pages repositories.PageRepository, opts Options) *Generator {
	return &Generator{
		posts:    posts,
		renderer: renderer,
		pages:    pages,
		opts:     opts,
		now:      time.Now,
	}
}

// BuildReport lists what a build produced.
type BuildReport struct {
	Generated []string
	Skipped   []string
}

// Build generates the listing page and the detail page of every known post.
// Posts that no longer exist are skipped; other failures are collected and
// returned once every page has been attempted.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := &BuildReport{}

	if _, err := g.generate(ctx, ListingPath); err != nil {
		return report, err
	}
	report.Generated = append(report.Generated, ListingPath)

	slugs, err := g.posts.ListSlugs(ctx)
	if err != nil {
		return report, err
	}

	var errs []error
	for _, slug := range slugs {
		path := PostPath(slug)
		if _, err := g.generate(ctx, path); err != nil {
			if errors.Is(err, content.ErrNotFound) {
				log.WithField("path", path).Warn("post vanished during build, skipping")
				report.Skipped = append(report.Skipped, path)
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		report.Generated = append(report.Generated, path)
	}

	log.WithFields(logrus.Fields{
		"generated": len(report.Generated),
		"skipped":   len(report.Skipped),
		"failed":    len(errs),
	}).Info("build finished")
	return report, errors.Join(errs...)
}

// Listing returns the listing page.
func (g *Generator) Listing(ctx context.Context) (*models.RenderedPage, error) {
	return g.serve(ctx, ListingPath, false)
}

// Post returns the detail page of slug. A slug never generated before is
// generated now; if that takes longer than the fallback wait, ErrPending is
// returned and generation completes in the background.
func (g *Generator) Post(ctx context.Context, slug string) (*models.RenderedPage, error) {
	return g.serve(ctx, PostPath(slug), true)
}

func (g *Generator) serve(ctx context.Context, path string, fallback bool) (*models.RenderedPage, error) {
	cached, err := g.pages.Get(ctx, path)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		log.WithError(err).WithField("path", path).Error("page cache read failed")
	}
	if cached != nil && !cached.Stale(g.now(), g.opts.Revalidate) {
		return cached, nil
	}

	// Generation is detached from the request so a fallback response does
	// not abort it.
	ch := g.group.DoChan(path, func() (interface{}, error) {
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generateTimeout)
		defer cancel()
		return g.generate(genCtx, path)
	})

	var wait <-chan time.Time
	if fallback && cached == nil {
		timer := time.NewTimer(g.opts.FallbackWait)
		defer timer.Stop()
		wait = timer.C
	}

	select {
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(*models.RenderedPage), nil
		}
		if errors.Is(res.Err, content.ErrNotFound) {
			if cached != nil {
				g.evict(ctx, path)
			}
			return nil, res.Err
		}
		if cached != nil {
			log.WithError(res.Err).WithField("path", path).Warn("regeneration failed, serving stale page")
			return cached, nil
		}
		return nil, res.Err
	case <-wait:
		return nil, ErrPending
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// generate renders path and stores the result.
func (g *Generator) generate(ctx context.Context, path string) (*models.RenderedPage, error) {
	var buf bytes.Buffer
	if path == ListingPath {
		state, err := g.posts.ListPosts(ctx)
		if err != nil {
			return nil, err
		}
		if err := g.renderer.RenderListing(&buf, state); err != nil {
			return nil, fmt.Errorf("failed to render listing: %w", err)
		}
	} else {
		slug, ok := slugFromPath(path)
		if !ok {
			return nil, fmt.Errorf("no page at %q: %w", path, content.ErrNotFound)
		}
		post, err := g.posts.GetPost(ctx, slug)
		if err != nil {
			return nil, err
		}
		if err := g.renderer.RenderDetail(&buf, views.Detail{Post: post}); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", path, err)
		}
	}

	page := models.NewRenderedPage(path, buf.Bytes(), g.now())
	if err := g.pages.Put(ctx, page); err != nil {
		log.WithError(err).WithField("path", path).Error("page cache write failed")
	}
	log.WithField("path", path).Debug("page generated")
	return page, nil
}

func (g *Generator) evict(ctx context.Context, path string) {
	if err := g.pages.Delete(ctx, path); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		log.WithError(err).WithField("path", path).Error("page cache delete failed")
	}
}

func slugFromPath(path string) (string, bool) {
	slug, ok := strings.CutPrefix(path, "/post/")
	return slug, ok && slug != ""
}
