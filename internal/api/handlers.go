package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/travel-compass/internal/travel"
)

const (
	historyLimit    = 10
	statusListLimit = 1000
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	recommender Recommender
	repo        RecommendationRepo
	statuses    StatusStore
	log         *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(recommender Recommender, repo RecommendationRepo, statuses StatusStore, log *slog.Logger) *Handlers {
	return &Handlers{
		recommender: recommender,
		repo:        repo,
		statuses:    statuses,
		log:         log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// Root handles GET /api/.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Travel Guide API"})
}

type recommendationRequest struct {
	Destination string  `json:"destination"`
	Preferences *string `json:"preferences"`
}

// CreateRecommendation handles POST /api/recommendations.
// One model call, one insert; the record is returned only once it is stored.
func (h *Handlers) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	body, ok := readValidBody(w, r, recommendationSchema)
	if !ok {
		return
	}

	var req recommendationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeValidation(w, fieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
		return
	}

	q := travel.Query{Destination: req.Destination}
	if req.Preferences != nil {
		q.Preferences = *req.Preferences
	}

	rec, err := h.recommender.Recommend(r.Context(), q)
	if err != nil {
		if errors.Is(err, travel.ErrEmptyDestination) {
			writeValidation(w, fieldError{Loc: []string{"body", "destination"}, Msg: err.Error(), Type: "value_error"})
			return
		}
		h.log.Error("generating recommendations failed", "destination", q.Destination, "err", err)
		writeDetail(w, http.StatusInternalServerError, "Error generating travel recommendations")
		return
	}

	if err := h.repo.InsertRecommendation(r.Context(), rec); err != nil {
		h.log.Error("storing recommendation failed", "id", rec.ID, "destination", q.Destination, "err", err)
		writeDetail(w, http.StatusInternalServerError, "Error generating travel recommendations")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// RecommendationHistory handles GET /api/recommendations/history.
func (h *Handlers) RecommendationHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := h.repo.RecentRecommendations(r.Context(), historyLimit)
	if err != nil {
		h.log.Error("listing recommendation history failed", "err", err)
		writeDetail(w, http.StatusInternalServerError, "Error retrieving recommendation history")
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

type statusRequest struct {
	ClientName string `json:"client_name"`
}

// CreateStatusCheck handles POST /api/status.
func (h *Handlers) CreateStatusCheck(w http.ResponseWriter, r *http.Request) {
	body, ok := readValidBody(w, r, statusSchema)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeValidation(w, fieldError{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
		return
	}

	check, err := h.statuses.Create(r.Context(), req.ClientName)
	if err != nil {
		h.log.Error("creating status check failed", "client_name", req.ClientName, "err", err)
		writeDetail(w, http.StatusInternalServerError, "Error creating status check")
		return
	}

	writeJSON(w, http.StatusOK, check)
}

// ListStatusChecks handles GET /api/status.
func (h *Handlers) ListStatusChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := h.statuses.List(r.Context(), statusListLimit)
	if err != nil {
		h.log.Error("listing status checks failed", "err", err)
		writeDetail(w, http.StatusInternalServerError, "Error retrieving status checks")
		return
	}

	writeJSON(w, http.StatusOK, checks)
}

// HealthHandlerFunc returns an http.HandlerFunc that pings db and redis
// concurrently. Either failing yields 503 with status "degraded".
func HealthHandlerFunc(db, redis Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		dbStatus, redisStatus := "ok", "ok"

		// Pings report through their own variables and never return an error.
		var g errgroup.Group
		g.Go(func() error {
			if err := db.Ping(ctx); err != nil {
				log.Error("health check: db ping failed", "err", err)
				dbStatus = "error"
			}
			return nil
		})
		g.Go(func() error {
			if err := redis.Ping(ctx); err != nil {
				log.Error("health check: redis ping failed", "err", err)
				redisStatus = "error"
			}
			return nil
		})
		_ = g.Wait()

		code, overall := http.StatusOK, "ok"
		if dbStatus != "ok" || redisStatus != "ok" {
			code, overall = http.StatusServiceUnavailable, "degraded"
		}

		writeJSON(w, code, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
