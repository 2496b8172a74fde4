package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"spacetraveling/app/content"
	"spacetraveling/app/generate"
	"spacetraveling/app/models"
	"spacetraveling/app/services"
	"spacetraveling/app/views"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "controllers")

// PageController serves the generated pages and the load-more endpoint.
type PageController struct {
	generator *generate.Generator
	posts     *services.PostService
	renderer  *views.Renderer
	// refresh is the meta refresh, in seconds, of the fallback page.
	refresh int
}

// NewPageController creates a new PageController
func NewPageController(generator *generate.Generator, posts *services.PostService, renderer *views.Renderer, refresh int) *PageController {
	return &PageController{
		generator: generator,
		posts:     posts,
		renderer:  renderer,
		refresh:   refresh,
	}
}

// moreResponse is the body of the load-more endpoint. NextPage is null when
// there is nothing left to load. HTML is empty for JSON clients; Results is
// always an array.
type moreResponse struct {
	NextPage *string              `json:"next_page"`
	HTML     string               `json:"html"`
	Results  []models.PostSummary `json:"results"`
}

// Index serves the listing page
func (pc *PageController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pc.generator.Listing(r.Context())
	if err != nil {
		log.WithError(err).Error("listing unavailable")
		pc.sendError(w, r, "Failed to load posts", http.StatusBadGateway)
		return
	}
	pc.sendPage(w, r, page)
}

// Show serves the page of a single post
func (pc *PageController) Show(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}

	page, err := pc.generator.Post(r.Context(), slug)
	switch {
	case err == nil:
		pc.sendPage(w, r, page)
	case errors.Is(err, generate.ErrPending):
		pc.sendFallback(w, r)
	case errors.Is(err, content.ErrNotFound):
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
	default:
		log.WithError(err).WithField("slug", slug).Error("post unavailable")
		pc.sendError(w, r, "Failed to load post", http.StatusBadGateway)
	}
}

// More loads the page of posts the cursor query parameter points at
func (pc *PageController) More(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	if cursor == "" {
		pc.sendError(w, r, "Missing cursor", http.StatusBadRequest)
		return
	}

	state, err := pc.posts.LoadMore(r.Context(), views.State{NextPage: cursor})
	if err != nil {
		if errors.Is(err, content.ErrForeignCursor) {
			pc.sendError(w, r, "Invalid cursor", http.StatusBadRequest)
			return
		}
		pc.sendError(w, r, "Failed to load more posts", http.StatusBadGateway)
		return
	}

	resp := moreResponse{Results: state.Posts}
	if resp.Results == nil {
		resp.Results = []models.PostSummary{}
	}
	if state.HasMore() {
		resp.NextPage = &state.NextPage
	}

	if r.Header.Get("Accept") == "application/json" {
		pc.sendJSON(w, resp)
		return
	}

	var buf bytes.Buffer
	if err := pc.renderer.RenderCards(&buf, state.Posts); err != nil {
		pc.sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	resp.HTML = buf.String()
	pc.sendJSON(w, resp)
}

// Healthz reports that the server is up
func (pc *PageController) Healthz(w http.ResponseWriter, r *http.Request) {
	pc.sendJSON(w, map[string]string{"status": "ok"})
}

// Helper methods for consistent response handling

func (pc *PageController) sendPage(w http.ResponseWriter, r *http.Request, page *models.RenderedPage) {
	w.Header().Set("ETag", page.ETag)
	w.Header().Set("Last-Modified", page.GeneratedAt.UTC().Format(http.TimeFormat))
	if match := r.Header.Get("If-None-Match"); match != "" && match == page.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", page.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(page.Body)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		w.Write(page.Body)
	}
}

func (pc *PageController) sendFallback(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pc.renderer.RenderDetail(&buf, views.Detail{Refresh: pc.refresh}); err != nil {
		pc.sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (pc *PageController) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (pc *PageController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	} else {
		http.Error(w, message, status)
	}
}
