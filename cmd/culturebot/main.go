package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/zaracky/POC-RAG-System/internal/chat"
	"github.com/zaracky/POC-RAG-System/internal/chatlog"
	"github.com/zaracky/POC-RAG-System/internal/config"
	"github.com/zaracky/POC-RAG-System/internal/document"
	"github.com/zaracky/POC-RAG-System/internal/geo"
	"github.com/zaracky/POC-RAG-System/internal/index"
	"github.com/zaracky/POC-RAG-System/internal/ingest"
	"github.com/zaracky/POC-RAG-System/internal/llm"
	"github.com/zaracky/POC-RAG-System/internal/openagenda"
	"github.com/zaracky/POC-RAG-System/internal/server"
	"github.com/zaracky/POC-RAG-System/internal/websearch"
)

var configPath string

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	root := &cobra.Command{
		Use:   "culturebot",
		Short: "Chatbot culturel Occitanie: ingestion pipeline and conversational interface",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.toml", "path to the TOML configuration")

	root.AddCommand(indexCmd(), chatCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func buildPipeline(cfg *config.Config) *ingest.Pipeline {
	_, embedder, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if embedder == nil {
		log.Fatalf("Provider %q has no embedding support; indexing needs one", cfg.LLM.Provider)
	}

	fetcher := openagenda.NewClient(cfg.OpenAgenda.Region, cfg.OpenAgenda.StartYear, keywords(cfg))
	fetcher.PageSize = cfg.OpenAgenda.PageSize
	fetcher.Delay = time.Duration(cfg.OpenAgenda.RequestDelayMs) * time.Millisecond

	return &ingest.Pipeline{
		Fetcher:  fetcher,
		Chunker:  document.NewChunker(embedder),
		Embedder: embedder,
		Clean: openagenda.CleanOptions{
			Retention:        time.Duration(cfg.OpenAgenda.RetentionDays) * 24 * time.Hour,
			RequireFutureEnd: cfg.OpenAgenda.RequireFutureEnd,
		},
		IndexDir: cfg.Index.Path,
	}
}

func keywords(cfg *config.Config) []string {
	if len(cfg.OpenAgenda.Keywords) > 0 {
		return cfg.OpenAgenda.Keywords
	}
	return openagenda.DefaultKeywords
}

func indexCmd() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Fetch events and rebuild the vector index",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			pipeline := buildPipeline(cfg)

			run := func() {
				if _, err := pipeline.Run(context.Background()); err != nil {
					log.Printf("ingestion failed: %v", err)
				}
			}

			if schedule == "" {
				if _, err := pipeline.Run(context.Background()); err != nil {
					log.Fatalf("Ingestion failed: %v", err)
				}
				return
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, run); err != nil {
				log.Fatalf("Invalid cron schedule %q: %v", schedule, err)
			}
			log.Printf("Running ingestion on schedule %q", schedule)
			run()
			c.Run()
		},
	}

	cmd.Flags().StringVar(&schedule, "cron", "", "cron expression for periodic rebuilds (runs once when empty)")
	return cmd
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat loop on the terminal",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			store, err := index.Load(cfg.Index.Path)
			if err != nil {
				log.Fatalf("Refusing to start: %v (run 'culturebot index' first)", err)
			}

			llmClient, embedder, err := llm.NewClient(context.Background(), cfg.LLM)
			if err != nil {
				log.Fatalf("Failed to initialize LLM client: %v", err)
			}
			if embedder == nil {
				log.Fatalf("Provider %q has no embedding support; retrieval needs one", cfg.LLM.Provider)
			}

			location := geo.Location{City: cfg.Geo.DefaultCity, Region: cfg.Geo.DefaultRegion}
			if cfg.Geo.Enabled {
				resolver := geo.NewResolver(time.Duration(cfg.Geo.TimeoutS)*time.Second, location)
				location = resolver.Locate(context.Background())
			}

			o := &chat.Orchestrator{
				LLM:      llmClient,
				Embedder: embedder,
				Index:    store,
				Web:      websearch.NewClient(),
				History:  chat.NewHistory(cfg.Chat.HistoryWindow),
				Region:   cfg.OpenAgenda.Region,
				City:     location.City,
				TopK:     cfg.Index.TopK,
				Backoff:  time.Duration(cfg.Chat.RateLimitBackoffS) * time.Second,
			}
			logger := chatlog.New(cfg.Log.Dir)

			fmt.Println("Bienvenue dans le chatbot culturel Occitanie ! Posez votre question (ou tapez 'exit' pour quitter)")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("Vous : ")
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if q := strings.ToLower(question); q == "exit" || q == "quit" || q == "q" {
					fmt.Println("À bientôt !")
					break
				}

				answer := o.Answer(context.Background(), question)
				fmt.Printf("\nAssistant : %s\n\n", answer.Text)

				if err := logger.Record(time.Now(), question, answer.Text); err != nil {
					log.Printf("failed to record chat log: %v", err)
				}
			}
		},
	}
}

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat endpoint over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			srv, err := server.NewServer(cfg)
			if err != nil {
				log.Fatalf("Failed to start server: %v", err)
			}

			if port == "" {
				port = os.Getenv("PORT")
			}
			if port == "" {
				port = "8080"
			}

			r := srv.SetupRouter()
			log.Printf("Starting server on port %s", port)
			if err := r.Run(":" + port); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to $PORT or 8080)")
	return cmd
}
