package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaracky/POC-RAG-System/internal/chat"
	"github.com/zaracky/POC-RAG-System/internal/chatlog"
	"github.com/zaracky/POC-RAG-System/internal/config"
	"github.com/zaracky/POC-RAG-System/internal/geo"
	"github.com/zaracky/POC-RAG-System/internal/index"
	"github.com/zaracky/POC-RAG-System/internal/llm"
	"github.com/zaracky/POC-RAG-System/internal/websearch"
)

// Server exposes the answer orchestrator over HTTP. The vector index is
// loaded once at startup and read-only afterwards; conversation histories
// are per session.
type Server struct {
	Cfg      *config.Config
	LLM      llm.LLMClient
	Embedder llm.EmbedderClient
	Index    chat.Searcher
	Web      chat.WebSearcher
	Location geo.Location
	ChatLog  *chatlog.Logger

	mu       sync.Mutex
	sessions map[string]*chat.History
}

// NewServer wires the query-time dependencies. A missing or corrupt index
// is fatal here: there is no sensible way to answer questions without one.
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := index.Load(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("refusing to serve: %w (run the indexer first)", err)
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	if embedderClient == nil {
		return nil, fmt.Errorf("provider %q has no embedding support; retrieval needs one", cfg.LLM.Provider)
	}

	location := geo.Location{City: cfg.Geo.DefaultCity, Region: cfg.Geo.DefaultRegion}
	if cfg.Geo.Enabled {
		resolver := geo.NewResolver(time.Duration(cfg.Geo.TimeoutS)*time.Second, location)
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Geo.TimeoutS)*time.Second)
		location = resolver.Locate(ctx)
		cancel()
	}

	return &Server{
		Cfg:      cfg,
		LLM:      llmClient,
		Embedder: embedderClient,
		Index:    store,
		Web:      websearch.NewClient(),
		Location: location,
		ChatLog:  chatlog.New(cfg.Log.Dir),
		sessions: make(map[string]*chat.History),
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/chat", s.Chat)

	return r
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	o := &chat.Orchestrator{
		LLM:      s.LLM,
		Embedder: s.Embedder,
		Index:    s.Index,
		Web:      s.Web,
		History:  s.session(req.SessionID),
		Region:   s.Cfg.OpenAgenda.Region,
		City:     s.Location.City,
		TopK:     s.Cfg.Index.TopK,
		Backoff:  time.Duration(s.Cfg.Chat.RateLimitBackoffS) * time.Second,
	}

	answer := o.Answer(c.Request.Context(), req.Question)

	if s.ChatLog != nil {
		if err := s.ChatLog.Record(time.Now(), req.Question, answer.Text); err != nil {
			log.Printf("failed to record chat log: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer.Text, "source": string(answer.Source)})
}

func (s *Server) session(id string) *chat.History {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.sessions[id]
	if !ok {
		h = chat.NewHistory(s.Cfg.Chat.HistoryWindow)
		s.sessions[id] = h
	}
	return h
}
