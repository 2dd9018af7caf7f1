// Package main implements a mock upstream catalog server for local
// development. It serves a fixture catalog over the same routes the real
// upstream exposes, so the storefront can run without network access.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/device-compare/internal/upstream"
)

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/catalog.json", "path to catalog fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	records, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "records", len(records))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock upstream", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newServer(logger, records).routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) ([]upstream.CatalogRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var records []upstream.CatalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("fixture has no records")
	}
	return records, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// server holds the fixture catalog and the sessions issued by login and
// signup.
type server struct {
	logger *slog.Logger

	mu       sync.RWMutex
	records  []upstream.CatalogRecord
	sessions map[string]upstream.UserProfile
}

func newServer(logger *slog.Logger, records []upstream.CatalogRecord) *server {
	return &server{
		logger:   logger,
		records:  records,
		sessions: make(map[string]upstream.UserProfile),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /phones/search", s.search)
	mux.HandleFunc("GET /phones/compare", s.compare)
	mux.HandleFunc("GET /company_rate/{id}", s.expertRatings)
	mux.HandleFunc("PUT /phones/{id}/affiliate", s.updateAffiliate)
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/signup", s.signup)
	mux.HandleFunc("GET /auth/profile", s.profile)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func positiveInt(raw string, fallback int) int {
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	page := positiveInt(r.URL.Query().Get("page"), 1)
	limit := positiveInt(r.URL.Query().Get("limit"), 20)

	s.mu.RLock()
	total := len(s.records)
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	data := slices.Clone(s.records[start:end])
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, upstream.SearchResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  data,
	})
	s.logger.Info("search", "page", page, "limit", limit, "returned", len(data), "total", total)
}

func (s *server) find(id string) (upstream.CatalogRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return upstream.CatalogRecord{}, false
}

func (s *server) compare(w http.ResponseWriter, r *http.Request) {
	var resp upstream.CompareResponse
	best := -1.0
	for id := range strings.SplitSeq(r.URL.Query().Get("ids"), ",") {
		rec, ok := s.find(strings.TrimSpace(id))
		if !ok {
			continue
		}
		resp.Phones = append(resp.Phones, compareRecord(&rec))
		if rec.TechScore > best {
			best = rec.TechScore
			resp.WinnerModel = rec.ModelName
		}
	}
	if resp.Phones == nil {
		resp.Phones = []upstream.CompareRecord{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func compareRecord(rec *upstream.CatalogRecord) upstream.CompareRecord {
	sp := rec.SearchSpecs
	out := upstream.CompareRecord{
		ID:        rec.ID,
		Model:     rec.ModelName,
		Image:     rec.Image,
		TechScore: rec.TechScore,
		PriceINR:  sp.PriceINR,
		ComparisonValues: upstream.ComparisonValues{
			RAM:         sp.RAMGB,
			Storage:     sp.StorageGB,
			Battery:     sp.BatteryMAh,
			RefreshRate: sp.RefreshRateHz,
			ScreenSize:  sp.ScreenSizeInch,
			Year:        sp.ReleaseYear,
		},
		DisplayText: upstream.DisplayText{
			Memory:    fmt.Sprintf("%g GB RAM, %g GB storage", sp.RAMGB, sp.StorageGB),
			Battery:   fmt.Sprintf("%g mAh", sp.BatteryMAh),
			Processor: sp.Chipset,
			Display:   fmt.Sprintf("%g inch, %g Hz", sp.ScreenSizeInch, sp.RefreshRateHz),
		},
	}
	if ev := rec.ExpertView; ev != nil {
		out.Ratings.ExpertScore = upstream.FlexScore{Value: ev.ScoreAvg, Valid: true}
	}
	return out
}

func (s *server) expertRatings(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.find(r.PathValue("id"))
	if !ok || rec.ExpertView == nil {
		writeError(w, http.StatusNotFound, "no expert ratings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expert_view": rec.ExpertView})
}

func (s *server) session(r *http.Request) (upstream.UserProfile, bool) {
	token := upstream.ParseBearer(r.Header.Get("Authorization"))
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.sessions[token]
	return p, ok
}

func (s *server) updateAffiliate(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.session(r); !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var body struct {
		Retailer string `json:"retailer"`
		URL      string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Retailer == "" || body.URL == "" {
		writeError(w, http.StatusBadRequest, "retailer and url are required")
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	i := slices.IndexFunc(s.records, func(rec upstream.CatalogRecord) bool { return rec.ID == id })
	if i >= 0 {
		if s.records[i].AffiliateLinks == nil {
			s.records[i].AffiliateLinks = make(map[string]string)
		}
		s.records[i].AffiliateLinks[body.Retailer] = body.URL
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "phone not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	s.logger.Info("affiliate link updated", "id", id, "retailer", body.Retailer)
}

func (s *server) issue(profile upstream.UserProfile) string {
	token := "mock-token-" + uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = profile
	s.mu.Unlock()
	return token
}

func decodeCredentials(r *http.Request) (upstream.Credentials, bool) {
	var creds upstream.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return creds, false
	}
	return creds, creds.Email != "" && creds.Password != ""
}

// role grants admin to any account whose email starts with "admin".
func role(email string) string {
	if strings.HasPrefix(email, "admin") {
		return "admin"
	}
	return "user"
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := s.issue(upstream.UserProfile{
		ID:    uuid.NewString(),
		Name:  strings.SplitN(creds.Email, "@", 2)[0],
		Email: creds.Email,
		Role:  role(creds.Email),
	})
	writeJSON(w, http.StatusOK, upstream.AuthResponse{Token: token})
	s.logger.Info("issued mock token", "email", creds.Email)
}

func (s *server) signup(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(r)
	if !ok || creds.Name == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	token := s.issue(upstream.UserProfile{
		ID:    uuid.NewString(),
		Name:  creds.Name,
		Email: creds.Email,
		Role:  role(creds.Email),
	})
	writeJSON(w, http.StatusCreated, upstream.AuthResponse{AccessToken: token})
}

func (s *server) profile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.session(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
