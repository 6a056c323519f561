package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tms/backend/models"
)

// stubAPI mimics the REST API shape the HTTP store expects.
func stubAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	// Method-qualified ServeMux patterns need go1.22+; route by path and
	// check the method by hand so the stub works on go1.21.
	withMethod := func(method string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				http.NotFound(w, r)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/api/courses", withMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Course{{ID: "c1", Title: "Rigging Basics"}})
	}))
	mux.HandleFunc("/api/courses/c1/bookmarks/st1", withMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Course{ID: "c1", BookmarkedSubtopics: []string{"st1"}})
	}))
	mux.HandleFunc("/api/courses/missing", withMethod(http.MethodPut, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Not Found", "message": "course missing: not found"})
	}))
	mux.HandleFunc("/api/grants", withMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Internal Server Error"})
	}))
	return httptest.NewServer(mux)
}

func TestHTTPStoreListCourses(t *testing.T) {
	srv := stubAPI(t)
	defer srv.Close()

	s := NewHTTPStore(srv.URL)
	courses, err := s.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Rigging Basics", courses[0].Title)
}

func TestHTTPStoreNestedMutatorReturnsWholeCourse(t *testing.T) {
	srv := stubAPI(t)
	defer srv.Close()

	s := NewHTTPStore(srv.URL)
	course, err := s.ToggleBookmark(context.Background(), "c1", "st1")
	require.NoError(t, err)
	assert.Equal(t, "c1", course.ID)
	assert.Equal(t, []string{"st1"}, course.BookmarkedSubtopics)
}

func TestHTTPStoreMapsNotFound(t *testing.T) {
	srv := stubAPI(t)
	defer srv.Close()

	s := NewHTTPStore(srv.URL)
	_, err := s.ReplaceCourse(context.Background(), models.Course{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStoreMapsServerFailure(t *testing.T) {
	srv := stubAPI(t)
	defer srv.Close()

	s := NewHTTPStore(srv.URL)
	_, err := s.ListGrants(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPStoreMapsTransportFailure(t *testing.T) {
	srv := stubAPI(t)
	srv.Close() // nothing is listening anymore

	s := NewHTTPStore(srv.URL)
	_, err := s.ListCourses(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
