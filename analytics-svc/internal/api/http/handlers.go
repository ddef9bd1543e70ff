package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"little-lemon/analytics-svc/internal/domain"
	"little-lemon/analytics-svc/internal/service"

	"github.com/gorilla/mux"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Handler struct {
	Analytics service.AnalyticsInterface
	Secret    []byte
}

func NewHandler(svc service.AnalyticsInterface, secret []byte) *Handler {
	return &Handler{Analytics: svc, Secret: secret}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/analytics").Subrouter()
	api.Use(h.requireSalesAccess)
	api.HandleFunc("/top-items", h.getTopItems).Methods("GET")
	api.HandleFunc("/revenue", h.getRevenue).Methods("GET")
}

func (h *Handler) getTopItems(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = domain.PeriodAll
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeDetail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	data, err := h.Analytics.TopItems(r.Context(), period, limit)
	if errors.Is(err, domain.ErrInvalidPeriod) {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("Error loading top items: %v", err)
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getRevenue(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("date")
	if day == "" {
		day = h.Analytics.Today()
	} else if _, err := time.Parse("2006-01-02", day); err != nil {
		writeDetail(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	data, err := h.Analytics.Revenue(r.Context(), day)
	if err != nil {
		log.Printf("Error loading revenue for %s: %v", day, err)
		writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"date":  data.Date,
		"total": data.Total.StringFixed(2),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
