package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/gorilla/mux"
	"github.com/zoobzio/logtrace"
)

// TraceContext gives every request its own trace holder, making each HTTP
// request one logical request for the tracer.
func TraceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logtrace.NewContext(r.Context())))
	})
}

// Handler serves the order endpoints.
type Handler struct {
	controller *Controller
	service    *Service
	trace      logtrace.LogTrace
	collector  *logtrace.Collector
	log        logr.Logger
}

// NewHandler creates the HTTP handler. collector may be nil, which disables
// the /traces endpoint.
func NewHandler(controller *Controller, service *Service, trace logtrace.LogTrace,
	collector *logtrace.Collector, log logr.Logger) *Handler {
	return &Handler{
		controller: controller,
		service:    service,
		trace:      trace,
		collector:  collector,
		log:        log,
	}
}

// Router returns the routes:
//
//	GET /v3/request?itemId=   traced with Begin/End/Exception
//	GET /v5/request?itemId=   traced with the template
//	GET /traces               recent trace entries as JSON
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(TraceContext)
	r.HandleFunc("/v3/request", h.requestV3).Methods(http.MethodGet)
	r.HandleFunc("/v5/request", h.requestV5).Methods(http.MethodGet)
	if h.collector != nil {
		r.HandleFunc("/traces", h.traces).Methods(http.MethodGet)
	}
	return r
}

func (h *Handler) requestV3(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := h.trace.Begin(ctx, "OrderController.request()")
	if err := h.service.OrderItem(ctx, r.URL.Query().Get("itemId")); err != nil {
		h.trace.Exception(ctx, status, err)
		h.writeError(w, err)
		return
	}
	h.trace.End(ctx, status)
	writeText(w, http.StatusOK, "ok")
}

func (h *Handler) requestV5(w http.ResponseWriter, r *http.Request) {
	result, err := h.controller.Request(r.Context(), r.URL.Query().Get("itemId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, result)
}

type traceEntry struct {
	TraceID   string `json:"trace_id"`
	Level     int    `json:"level"`
	Marker    string `json:"marker"`
	Message   string `json:"message"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
	Line      string `json:"line"`
}

func (h *Handler) traces(w http.ResponseWriter, _ *http.Request) {
	entries := h.collector.Snapshot()
	out := make([]traceEntry, len(entries))
	for i, e := range entries {
		out[i] = traceEntry{
			TraceID:   e.TraceID,
			Level:     e.Level,
			Marker:    e.Marker.String(),
			Message:   e.Message,
			ElapsedMS: e.Elapsed.Milliseconds(),
			Line:      e.Line,
		}
		if e.Err != nil {
			out[i].Error = e.Err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.log.Error(err, "failed to encode trace entries")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidItem) {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error(err, "order request failed")
	writeText(w, http.StatusInternalServerError, "internal error")
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
