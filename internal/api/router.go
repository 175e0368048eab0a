package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/docuchat/backend/internal/api/handlers"
	"github.com/docuchat/backend/internal/api/middleware"
	"github.com/docuchat/backend/internal/cache"
	"github.com/docuchat/backend/internal/config"
	"github.com/docuchat/backend/internal/embedding"
	"github.com/docuchat/backend/internal/fetch"
	"github.com/docuchat/backend/internal/llm"
	"github.com/docuchat/backend/internal/rag"
	"github.com/docuchat/backend/internal/source"
	"github.com/docuchat/backend/internal/vectorstore"
	"github.com/docuchat/backend/pkg/chunker"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	redis    *redis.Client
	cfg      *config.Config
	store    vectorstore.Store
	registry source.Registry
	llmGW    llm.Gateway
}

func NewRouter(store vectorstore.Store, registry source.Registry, db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		redis:    rdb,
		cfg:      cfg,
		store:    store,
		registry: registry,
		llmGW:    llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	var embedCache *cache.Cache
	if rt.redis != nil {
		embedCache = cache.NewCache(rt.redis)
	}
	embedSvc := embedding.NewService(rt.llmGW, rt.cfg.LLM.EmbedModel, embedCache)
	generator := rag.NewGenerator(rt.llmGW, rt.cfg.LLM.DefaultModel)
	pipeline := rag.NewPipeline(rt.store, embedSvc, generator, rag.PipelineConfig{
		ChunkOpts: chunker.Options{
			ChunkSize: rt.cfg.RAG.ChunkSize,
			Overlap:   rt.cfg.RAG.ChunkOverlap,
		},
		VectorSize: rt.cfg.RAG.VectorSize,
		TopK:       rt.cfg.RAG.TopK,
	})
	sourceSvc := source.NewService(rt.registry, rt.store)
	fetcher := fetch.New(30 * time.Second)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		srcH := handlers.NewSourcesHandler(pipeline, sourceSvc, fetcher)
		r.Route("/sources", func(r chi.Router) {
			r.Post("/file", srcH.UploadFile)
			r.Post("/text", srcH.PasteText)
			r.Post("/url", srcH.FetchURL)
			r.Get("/", srcH.List)
			r.Delete("/{id}", srcH.Delete)
		})

		chatH := handlers.NewChatHandler(pipeline)
		r.Post("/chat", chatH.Ask)
	})

	return r
}
