package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spacetraveling/app/content/mock"
	"spacetraveling/app/controllers"
	"spacetraveling/app/generate"
	"spacetraveling/app/middleware"
	"spacetraveling/app/models"
	repomock "spacetraveling/app/repositories/mock"
	"spacetraveling/app/services"
	"spacetraveling/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(uid, title string) models.Document {
	date := "2022-03-05T10:00:00+0000"
	return models.Document{
		UID:                  uid,
		Type:                 "posts",
		FirstPublicationDate: &date,
		Data:                 json.RawMessage(`{"title":"` + title + `","author":"someone","content":[]}`),
	}
}

func setupTestRouter(t *testing.T, opts Options) *mux.Router {
	client := mock.NewClient()
	client.AddPages("posts",
		[]models.Document{doc("a", "First post")},
		[]models.Document{doc("b", "Second post")},
	)

	dates, err := views.NewDateFormatter("pt-BR", "UTC")
	require.NoError(t, err)
	renderer, err := views.NewRenderer(dates)
	require.NoError(t, err)

	posts := services.NewPostService(client, "posts")
	generator := generate.NewGenerator(posts, renderer, repomock.NewPageRepository(), generate.Options{
		Revalidate:   time.Hour,
		FallbackWait: time.Second,
	})
	return SetupRoutes(controllers.NewPageController(generator, posts, renderer, 3), opts)
}

func TestSetupRoutes(t *testing.T) {
	router := setupTestRouter(t, Options{AllowedOrigins: []string{"https://blog.example"}})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedHeader string
	}{
		{
			name:           "listing",
			method:         "GET",
			path:           "/",
			expectedStatus: http.StatusOK,
			expectedHeader: "text/html; charset=utf-8",
		},
		{
			name:           "post",
			method:         "GET",
			path:           "/post/a",
			expectedStatus: http.StatusOK,
			expectedHeader: "text/html; charset=utf-8",
		},
		{
			name:           "load more",
			method:         "GET",
			path:           "/api/posts/more?cursor=mock://posts/page/2",
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "healthz",
			method:         "GET",
			path:           "/healthz",
			expectedStatus: http.StatusOK,
			expectedHeader: "application/json",
		},
		{
			name:           "stylesheet",
			method:         "GET",
			path:           "/static/css/main.css",
			expectedStatus: http.StatusOK,
			expectedHeader: "text/css; charset=utf-8",
		},
		{
			name:           "unknown api route",
			method:         "GET",
			path:           "/api/nothing",
			expectedStatus: http.StatusNotFound,
			expectedHeader: "application/json",
		},
		{
			name:           "unknown page",
			method:         "GET",
			path:           "/about",
			expectedStatus: http.StatusNotFound,
			expectedHeader: "text/plain; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedHeader, w.Header().Get("Content-Type"))
		})
	}
}

func TestAPICORS(t *testing.T) {
	router := setupTestRouter(t, Options{AllowedOrigins: []string{"https://blog.example"}})

	req := httptest.NewRequest(http.MethodGet, "/api/posts/more?cursor=mock://posts/page/2", nil)
	req.Header.Set("Origin", "https://blog.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://blog.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/posts/more?cursor=mock://posts/page/2", nil)
	req.Header.Set("Origin", "https://other.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 2)
	t.Cleanup(limiter.Stop)
	router := setupTestRouter(t, Options{Limiter: limiter})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/posts/more?cursor=mock://posts/page/2", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Pages are not rate limited.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
