package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"todo-tracker-backend/internal/config"
	"todo-tracker-backend/internal/db"
	gh "todo-tracker-backend/internal/github"
	"todo-tracker-backend/internal/store"
	"todo-tracker-backend/internal/todo"
	"todo-tracker-backend/internal/types"
)

type Server struct {
	router        *chi.Mux
	cfg           config.Config
	processor     *todo.Processor
	memory        *store.MemoryStore
	database      *db.DB
	databaseStore *store.DatabaseStore
	fileStore     *store.FileStore
}

func NewServer(cfg config.Config) (*Server, error) {
	client := gh.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	return newServerWithClient(cfg, client)
}

func newServerWithClient(cfg config.Config, client gh.Client) (*Server, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-GitHub-Event", "X-GitHub-Delivery", "X-Hub-Signature-256"},
		MaxAge:         300,
	}))

	memory := store.NewMemoryStore(cfg.SummaryHistory)

	var database *db.DB
	var databaseStore *store.DatabaseStore
	var fileStore *store.FileStore
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("database connection established")
		if err := database.RunMigrations(); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		databaseStore = store.NewDatabaseStore(database)
	} else {
		log.Println("warning: DB_URL not provided, using file-based storage only")
		fileStore = store.NewFileStore(cfg.SummaryFile, cfg.SummaryHistory)
		// Reload history from disk so /api/pushes survives restarts.
		if records, err := fileStore.Load(); err != nil {
			log.Printf("[store] could not load %s: %v", cfg.SummaryFile, err)
		} else {
			for i := len(records) - 1; i >= 0; i-- {
				memory.Add(records[i])
			}
		}
	}

	s := &Server{
		router:        r,
		cfg:           cfg,
		processor:     todo.NewProcessor(client, cfg.RepoConfigPath),
		memory:        memory,
		database:      database,
		databaseStore: databaseStore,
		fileStore:     fileStore,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/webhook/github", s.handleWebhook)
	s.router.Get("/api/pushes", s.handlePushes)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handlePushes serves recent push summaries from the in-memory ring.
func (s *Server) handlePushes(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	records := s.memory.Recent(limit)
	if records == nil {
		records = []store.PushRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}
