package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/desertthunder/reel/internal/models"
)

// Route names accepted by [FakeAPI.Fail].
const (
	RouteRegister = "register"
	RouteList     = "list"
	RouteGet      = "get"
	RouteCreate   = "create"
	RouteUpdate   = "update"
	RouteDelete   = "delete"
	RoutePoster   = "poster"
)

// RecordedRequest is one request received by a [FakeAPI].
type RecordedRequest struct {
	Route          string
	Method         string
	Path           string
	Query          string
	Authorization  string
	ContentType    string
	Body           []byte
	PosterFilename string
}

type failure struct {
	status int
	body   any
}

// FakeAPI is an in-memory movie catalog server that records every request.
type FakeAPI struct {
	*httptest.Server

	// Token is issued by registration and required on protected routes.
	Token string

	mu       sync.Mutex
	movies   map[string]models.Movie
	nextIDs  []string
	seq      int
	users    map[string]bool
	requests []RecordedRequest
	failures map[string]failure
}

// NewFakeAPI starts a [FakeAPI]. Callers must Close it.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		Token:    "test-token",
		movies:   make(map[string]models.Movie),
		users:    make(map[string]bool),
		failures: make(map[string]failure),
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/register", f.record(RouteRegister, f.register)).Methods(http.MethodPost)
	r.HandleFunc("/movies", f.record(RouteList, f.protected(f.list))).Methods(http.MethodGet)
	r.HandleFunc("/movies", f.record(RouteCreate, f.protected(f.create))).Methods(http.MethodPost)
	r.HandleFunc("/movies/{id}", f.record(RouteGet, f.get)).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id}", f.record(RouteUpdate, f.protected(f.update))).Methods(http.MethodPatch)
	r.HandleFunc("/movies/{id}", f.record(RouteDelete, f.protected(f.remove))).Methods(http.MethodDelete)
	r.HandleFunc("/movies/{id}/poster", f.record(RoutePoster, f.protected(f.poster))).Methods(http.MethodPost)

	f.Server = httptest.NewServer(r)
	return f
}

// Seed stores movies as if they had been created earlier.
func (f *FakeAPI) Seed(movies ...models.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range movies {
		f.movies[m.ID] = m
	}
}

// QueueIDs sets the identifiers assigned to the next created movies.
func (f *FakeAPI) QueueIDs(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextIDs = append(f.nextIDs, ids...)
}

// Fail makes route respond with status and body until cleared with status 0.
func (f *FakeAPI) Fail(route string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, route)
		return
	}
	f.failures[route] = failure{status: status, body: body}
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many requests hit route.
func (f *FakeAPI) Count(route string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Route == route {
			n++
		}
	}
	return n
}

// Movie returns the stored movie with id.
func (f *FakeAPI) Movie(id string) (models.Movie, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.movies[id]
	return m, ok
}

func (f *FakeAPI) record(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		rec := RecordedRequest{
			Route:         route,
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		}

		if route == RoutePoster {
			if _, header, err := r.FormFile("poster"); err == nil {
				rec.PosterFilename = header.Filename
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		fail, failing := f.failures[route]
		f.mu.Unlock()

		if failing {
			writeJSON(w, fail.status, fail.body)
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	f.mu.Lock()
	exists := f.users[creds.Email]
	f.users[creds.Email] = true
	f.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Email already registered"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"accessToken": f.Token,
		"user":        map[string]string{"_id": "user-1", "email": creds.Email},
	})
}

func (f *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 8
	}

	f.mu.Lock()
	ids := make([]string, 0, len(f.movies))
	for id := range f.movies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data := []models.Movie{}
	for i := (page - 1) * limit; i < len(ids) && i < page*limit; i++ {
		data = append(data, f.movies[ids[i]])
	}
	total := len(ids)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, models.MoviePage{Data: data, Total: total, Page: page, Limit: limit})
}

func (f *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	m, ok := f.Movie(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Movie not found"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var in models.MovieInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"message": {"title should not be empty"}})
		return
	}

	f.mu.Lock()
	var id string
	if len(f.nextIDs) > 0 {
		id, f.nextIDs = f.nextIDs[0], f.nextIDs[1:]
	} else {
		f.seq++
		id = fmt.Sprintf("movie-%d", f.seq)
	}
	m := models.Movie{ID: id, Title: in.Title, PublishingYear: in.PublishingYear}
	f.movies[id] = m
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, m)
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var in models.MovieInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	f.mu.Lock()
	m, ok := f.movies[id]
	if ok {
		m.Title, m.PublishingYear = in.Title, in.PublishingYear
		f.movies[id] = m
	}
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Movie not found"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (f *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	f.mu.Lock()
	_, ok := f.movies[id]
	delete(f.movies, id)
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Movie not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) poster(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	_, header, err := r.FormFile("poster")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Poster file is required"})
		return
	}

	f.mu.Lock()
	m, ok := f.movies[id]
	if ok {
		m.PosterPath = "/uploads/" + id + "-" + header.Filename
		f.movies[id] = m
	}
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Movie not found"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
