package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"sukebei/models"
	"sukebei/services/source"
)

type sourceRegistry interface {
	Get(name string) (source.Source, bool)
	Names() []string
}

var _ sourceRegistry = (*source.Registry)(nil)

type searchFunc func(source.Source, context.Context, source.Request) ([]models.TorrentResult, error)

type SourceHandler struct {
	Registry sourceRegistry
}

func NewSourceHandler(r sourceRegistry) *SourceHandler {
	return &SourceHandler{Registry: r}
}

// List returns the names of the configured sources.
func (h *SourceHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": h.Registry.Names()})
}

// Test checks reachability of one source.
func (h *SourceHandler) Test(w http.ResponseWriter, r *http.Request) {
	src, ok := h.lookup(w, r)
	if !ok {
		return
	}
	ok = src.Test(r.Context())
	log.Printf("[api] source %q reachability: %v", src.Name(), ok)
	writeJSON(w, http.StatusOK, map[string]interface{}{"name": src.Name(), "ok": ok})
}

func (h *SourceHandler) Single(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, source.Source.Single)
}

func (h *SourceHandler) Batch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, source.Source.Batch)
}

func (h *SourceHandler) Movie(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, source.Source.Movie)
}

// All runs every mode of one source and returns them grouped.
func (h *SourceHandler) All(w http.ResponseWriter, r *http.Request) {
	src, ok := h.lookup(w, r)
	if !ok {
		return
	}
	results, err := source.SearchAll(r.Context(), src, parseRequest(r))
	if err != nil {
		writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *SourceHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *SourceHandler) search(w http.ResponseWriter, r *http.Request, fn searchFunc) {
	src, ok := h.lookup(w, r)
	if !ok {
		return
	}
	results, err := fn(src, r.Context(), parseRequest(r))
	if err != nil {
		writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *SourceHandler) lookup(w http.ResponseWriter, r *http.Request) (source.Source, bool) {
	name := mux.Vars(r)["name"]
	src, ok := h.Registry.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":   "unknown source " + strconv.Quote(name),
			"code":    "NOT_FOUND",
			"message": "No enabled source with that name is configured.",
		})
		return nil, false
	}
	return src, true
}

// parseRequest reads title (repeatable), episode, episodeCount, resolution and
// exclude (repeatable). Malformed numbers are treated as absent.
func parseRequest(r *http.Request) source.Request {
	q := r.URL.Query()
	req := source.Request{
		Titles:     q["title"],
		Resolution: strings.TrimSpace(q.Get("resolution")),
	}
	if raw := q.Get("episode"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			req.Episode = parsed
		}
	}
	if raw := q.Get("episodeCount"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			req.EpisodeCount = parsed
		}
	}
	for _, ex := range q["exclude"] {
		if ex = strings.TrimSpace(ex); ex != "" {
			req.Exclusions = append(req.Exclusions, ex)
		}
	}
	return req
}

func writeSearchError(w http.ResponseWriter, err error) {
	status, payload := classifySearchError(err)
	writeJSON(w, status, payload)
}

// classifySearchError maps search errors to a status code and error payload.
// Missing titles are the caller's fault; anything else came from upstream.
// The sukebei scraper absorbs transport failures and only returns
// ErrNoTitles, so the timeout and gateway branches apply to Source
// implementations that report upstream errors.
func classifySearchError(err error) (int, map[string]interface{}) {
	errMsg := err.Error()

	if errors.Is(err, source.ErrNoTitles) {
		return http.StatusBadRequest, map[string]interface{}{
			"error":   errMsg,
			"code":    "NO_TITLES",
			"message": "At least one non-empty title parameter is required.",
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return http.StatusGatewayTimeout, map[string]interface{}{
			"error":   errMsg,
			"code":    "GATEWAY_TIMEOUT",
			"message": "Search timed out. Consider increasing the transport timeout in Settings.",
		}
	}

	return http.StatusBadGateway, map[string]interface{}{
		"error":   errMsg,
		"code":    "BAD_GATEWAY",
		"message": "Search failed due to an upstream error.",
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] failed to encode response: %v", err)
	}
}
