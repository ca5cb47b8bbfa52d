package main

import (
	"flag"
	"net/http"
	"net/http/httputil"
	"os"
	"sync"

	"github.com/go-chi/chi"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/waii"
)

var port = flag.String("port", "8081", "Port to run the HTTP server on")

// Handlers keeps an in-memory semantic context so add and delete runs
// can be exercised locally without a Waii deployment.
type Handlers struct {
	mu         sync.Mutex
	statements map[string]waii.SemanticStatement
	log        zerolog.Logger
}

func New(log zerolog.Logger) *Handlers {
	return &Handlers{
		statements: map[string]waii.SemanticStatement{},
		log:        log,
	}
}

func (h *Handlers) Log(r *http.Request) {
	body, _ := httputil.DumpRequest(r, true)
	h.log.Info().Msgf("Request received %s %s %s", r.Method, r.URL, string(body))
}

func (h *Handlers) Authenticated(r *http.Request) bool {
	return r.Header.Get("Authorization") != ""
}

func (h *Handlers) UpdateSemanticContext(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	if !h.Authenticated(r) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	req := &waii.ModifySemanticContextRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	resp := &waii.ModifySemanticContextResponse{}

	for _, statement := range req.Updated {
		if statement.ID == "" {
			statement.ID = uuid.New().String()
		}

		h.statements[statement.ID] = statement
		resp.Updated = append(resp.Updated, statement)
	}

	for _, id := range req.Deleted {
		if _, ok := h.statements[id]; !ok {
			continue
		}

		delete(h.statements, id)
		resp.Deleted = append(resp.Deleted, id)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) GetSemanticContext(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	if !h.Authenticated(r) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	statements := make([]waii.SemanticStatement, 0, len(h.statements))
	for _, statement := range h.statements {
		statements = append(statements, statement)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"semantic_context": statements,
	})
}

func main() {
	flag.Parse()

	log := zerolog.New(os.Stdout)

	h := New(log)

	r := chi.NewRouter()
	r.Post("/update-semantic-context", h.UpdateSemanticContext)
	r.Post("/get-semantic-context", h.GetSemanticContext)

	log.Printf("Server starting on port %s...", *port)
	err := http.ListenAndServe(":"+*port, r)
	if err != nil {
		log.Fatal().Err(err).Msg("starting server")
	}
}
