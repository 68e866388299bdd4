package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
	"github.com/margaritastailoring/booking-platform/internal/catalog"
	"github.com/margaritastailoring/booking-platform/internal/draftstore"
	"github.com/margaritastailoring/booking-platform/pkg/logging"
)

// Handler exposes the booking workflow over HTTP.
type Handler struct {
	orch   *Orchestrator
	store  draftstore.Store
	logger *logging.Logger
}

// NewHandler constructs the booking HTTP handler.
func NewHandler(orch *Orchestrator, store draftstore.Store, logger *logging.Logger) *Handler {
	if orch == nil {
		panic("booking: orchestrator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{orch: orch, store: store, logger: logger}
}

// POST /api/bookings
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
		return
	}

	lang := requestLang(r)
	res, err := h.orch.Submit(r.Context(), flattenFields(body), lang)
	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, res)
	case err != nil:
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, res)
			return
		}
		h.logger.Error("submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	default:
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /api/bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"bookings": []model.StoredBooking{}})
		return
	}
	bookings, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Error("draft store list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if bookings == nil {
		bookings = []model.StoredBooking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// GET /api/services
func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	type service struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	services := make([]service, 0)
	for _, s := range catalog.All() {
		services = append(services, service{ID: s.ID, Name: catalog.DisplayName(s.ID, lang)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// flattenFields renders a decoded JSON object as the flat string form the
// validator consumes, the same shape a submitted HTML form would have.
func flattenFields(body map[string]any) map[string]string {
	raw := make(map[string]string, len(body))
	for k, v := range body {
		switch val := v.(type) {
		case string:
			raw[k] = val
		case bool:
			raw[k] = strconv.FormatBool(val)
		case float64:
			raw[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
			// absent
		default:
			raw[k] = fmt.Sprintf("%v", val)
		}
	}
	return raw
}

// requestLang picks the response language: ?lang= wins, then Accept-Language,
// defaulting to Spanish.
func requestLang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return normalizeLang(lang)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		first := strings.SplitN(accept, ",", 2)[0]
		return normalizeLang(first)
	}
	return "es"
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.HasPrefix(lang, "en") {
		return "en"
	}
	return "es"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload) //nolint:errcheck // response already committed
}
