package main

import (
	"flag"
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/go-chi/chi"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/keboola"
)

var (
	data = flag.String("data", "", "Path to the JSON file to serve")
	port = flag.String("port", "8080", "Port to run the HTTP server on")
)

type Data struct {
	Buckets    []keboola.Bucket             `json:"buckets"`
	Tables     map[string][]keboola.Table   `json:"tables"`
	Components map[string]keboola.Component `json:"components"`
}

type Handlers struct {
	data *Data
	log  zerolog.Logger
}

func New(data *Data, log zerolog.Logger) *Handlers {
	return &Handlers{data, log}
}

func (h *Handlers) Log(r *http.Request) {
	body, _ := httputil.DumpRequest(r, true)
	h.log.Info().Msgf("Request received %s %s %s", r.Method, r.URL, string(body))
}

func (h *Handlers) Authenticated(r *http.Request) bool {
	return r.Header.Get(keboola.TokenHeader) != ""
}

func (h *Handlers) ListBuckets(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	if !h.Authenticated(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.data.Buckets)
}

func (h *Handlers) ListTables(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	if !h.Authenticated(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	bucketID := chi.URLParam(r, "bucketID")

	tables, ok := h.data.Tables[bucketID]
	if !ok {
		http.Error(w, "bucket not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tables)
}

func (h *Handlers) GetTableDetail(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	if !h.Authenticated(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	tableID := chi.URLParam(r, "tableID")

	for _, tables := range h.data.Tables {
		for _, table := range tables {
			if table.ID == tableID {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(table)
				return
			}
		}
	}

	http.Error(w, "table not found", http.StatusNotFound)
}

func (h *Handlers) GetComponent(w http.ResponseWriter, r *http.Request) {
	h.Log(r)

	if !h.Authenticated(r) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	componentID := chi.URLParam(r, "componentID")

	component, ok := h.data.Components[componentID]
	if !ok {
		http.Error(w, "component not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(component)
}

func main() {
	flag.Parse()

	log := zerolog.New(os.Stdout)

	d, err := os.ReadFile(*data)
	if err != nil {
		log.Fatal().Err(err).Msg("opening file")
	}

	data := &Data{}
	err = json.Unmarshal(d, data)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing JSON")
	}

	h := New(data, log)

	r := chi.NewRouter()
	r.Get("/v2/storage/buckets", h.ListBuckets)
	r.Get("/v2/storage/buckets/{bucketID}/tables", h.ListTables)
	r.Get("/v2/storage/tables/{tableID}", h.GetTableDetail)
	r.Get("/v2/storage/components/{componentID}", h.GetComponent)

	log.Printf("Server starting on port %s...", *port)
	err = http.ListenAndServe(":"+*port, r)
	if err != nil {
		log.Fatal().Err(err).Msg("starting server")
	}
}
