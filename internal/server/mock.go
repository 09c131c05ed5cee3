package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/shared"
)

// DefaultPageSize is the number of movies per popular page.
const DefaultPageSize = 6

const (
	codeBadRequest   = "BAD_REQUEST"
	codeUnauthorized = "UNAUTHORIZED"
	codeNotFound     = "NOT_FOUND"
	codeConflict     = "CONFLICT"
)

type ctxKey struct{}

// errorBody is the service's error response shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// BackendOpts configures a [Backend].
type BackendOpts struct {
	Accounts []Account // defaults to [DefaultAccounts]
	PageSize int       // defaults to [DefaultPageSize]
	Logger   *log.Logger
}

// Backend is an in-memory movies service. It implements [Handler].
type Backend struct {
	mu        sync.RWMutex
	accounts  map[string]Account // by username
	sessions  map[string]string  // token to user id
	movies    map[int]models.MovieDetails
	order     []int
	favorites map[string][]models.Favorite // by user id
	nextFavID int

	pageSize int
	logger   *log.Logger
	mux      *http.ServeMux
	now      func() time.Time
}

// NewBackend seeds a [Backend] with accounts and the built-in catalog.
func NewBackend(opts BackendOpts) *Backend {
	accounts := opts.Accounts
	if len(accounts) == 0 {
		accounts = DefaultAccounts
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NopLogger()
	}

	b := &Backend{
		accounts:  make(map[string]Account, len(accounts)),
		sessions:  make(map[string]string),
		movies:    make(map[int]models.MovieDetails, len(catalog)),
		favorites: make(map[string][]models.Favorite),
		nextFavID: 1,
		pageSize:  pageSize,
		logger:    logger,
		now:       time.Now,
	}
	for _, a := range accounts {
		b.accounts[strings.ToLower(a.User.Username)] = a
	}
	for i, m := range catalog {
		b.movies[m.id] = m.details(float64(1000 - i*37))
		b.order = append(b.order, m.id)
	}

	b.mux = http.NewServeMux()
	b.mux.HandleFunc("POST /api/auth/signin", b.signIn)
	b.mux.Handle("GET /api/movies/popular", b.requireAuth(b.popular))
	b.mux.Handle("GET /api/movies/{id}", b.requireAuth(b.details))
	b.mux.Handle("GET /api/movies/favorites/list", b.requireAuth(b.listFavorites))
	b.mux.Handle("POST /api/movies/favorites", b.requireAuth(b.addFavorite))
	b.mux.Handle("DELETE /api/movies/favorites/{id}", b.requireAuth(b.removeFavorite))
	b.mux.Handle("GET /api/movies/favorites/check/{id}", b.requireAuth(b.checkFavorite))
	return b
}

// NewHandler returns a router serving b with request logging and panic recovery.
func NewHandler(b *Backend, logger *log.Logger) *BasicRouter {
	r := NewBasicRouter()
	r.Use(Recover(logger), Logging(logger))
	r.Handler(b)
	return r
}

// Routes implements [Handler].
func (b *Backend) Routes() []string {
	return []string{"/api/auth/", "/api/movies/"}
}

// ServeHTTP implements [http.Handler].
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

// IssueToken signs username in without a password and returns a fresh access token.
func (b *Backend) IssueToken(username string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, ok := b.accounts[strings.ToLower(username)]
	if !ok {
		return "", shared.ErrAuthFailed
	}
	return b.issue(a.User.ID), nil
}

// RevokeToken forgets token so that later requests with it get 401.
func (b *Backend) RevokeToken(token string) {
	b.mu.Lock()
	delete(b.sessions, token)
	b.mu.Unlock()
}

// MovieIDs returns the catalog ids in popularity order.
func (b *Backend) MovieIDs() []int {
	return slices.Clone(b.order)
}

func (b *Backend) issue(userID string) string {
	token := shared.GenerateID()
	b.sessions[token] = userID
	return token
}

func (b *Backend) signIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", codeBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required", codeBadRequest)
		return
	}

	b.mu.Lock()
	a, ok := b.accounts[strings.ToLower(req.Username)]
	if !ok || a.Password != req.Password {
		b.mu.Unlock()
		b.logger.Warn("sign in rejected", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "Invalid credentials", codeUnauthorized)
		return
	}
	token := b.issue(a.User.ID)
	b.mu.Unlock()

	user := a.User
	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: token, User: &user})
}

func (b *Backend) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing access token", codeUnauthorized)
			return
		}

		b.mu.RLock()
		userID, ok := b.sessions[token]
		b.mu.RUnlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token", codeUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, userID)))
	})
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func (b *Backend) popular(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid page", codeBadRequest)
			return
		}
		page = n
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	total := len(b.order)
	totalPages := (total + b.pageSize - 1) / b.pageSize
	results := []models.Movie{}
	if start := (page - 1) * b.pageSize; start < total {
		end := min(start+b.pageSize, total)
		for _, id := range b.order[start:end] {
			results = append(results, b.movies[id].Movie)
		}
	}

	writeJSON(w, http.StatusOK, models.MoviesPage{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: total,
	})
}

func (b *Backend) details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b.mu.RLock()
	m, found := b.movies[id]
	b.mu.RUnlock()
	if !found {
		writeError(w, http.StatusNotFound, "Movie not found", codeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (b *Backend) listFavorites(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	favs := slices.Clone(b.favorites[userID(r)])
	b.mu.RUnlock()

	if favs == nil {
		favs = []models.Favorite{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (b *Backend) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req models.AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MovieID <= 0 {
		writeError(w, http.StatusBadRequest, "A valid movieId is required", codeBadRequest)
		return
	}

	uid := userID(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	m, found := b.movies[req.MovieID]
	if !found {
		writeError(w, http.StatusNotFound, "Movie not found", codeNotFound)
		return
	}
	if slices.ContainsFunc(b.favorites[uid], func(f models.Favorite) bool { return f.MovieID == req.MovieID }) {
		writeError(w, http.StatusConflict, "Movie already in favorites", codeConflict)
		return
	}

	fav := models.Favorite{
		ID:        strconv.Itoa(b.nextFavID),
		UserID:    uid,
		MovieID:   req.MovieID,
		CreatedAt: b.now().UTC().Format(time.RFC3339),
		MovieData: m.Movie,
	}
	b.nextFavID++
	b.favorites[uid] = append(b.favorites[uid], fav)

	writeJSON(w, http.StatusCreated, fav)
}

func (b *Backend) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	uid := userID(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	favs := b.favorites[uid]
	i := slices.IndexFunc(favs, func(f models.Favorite) bool { return f.MovieID == id })
	if i < 0 {
		writeError(w, http.StatusNotFound, "Favorite not found", codeNotFound)
		return
	}
	b.favorites[uid] = slices.Delete(favs, i, i+1)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Movie removed from favorites"})
}

func (b *Backend) checkFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b.mu.RLock()
	isFav := slices.ContainsFunc(b.favorites[userID(r)], func(f models.Favorite) bool { return f.MovieID == id })
	b.mu.RUnlock()

	writeJSON(w, http.StatusOK, models.FavoriteStatus{IsFavorite: isFav})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid movie id", codeBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	data, err := json.Marshal(errorBody{Message: message, Error: code})
	if err != nil {
		data = []byte(`{"message":"An error occurred"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
