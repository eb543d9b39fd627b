package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/avise/grounder/internal/models"
	"github.com/avise/grounder/internal/types"
	cfgPkg "github.com/avise/grounder/pkg/config"
	"github.com/avise/grounder/pkg/ingest"
	"github.com/avise/grounder/pkg/llm"
	"github.com/avise/grounder/pkg/loader"
	"github.com/avise/grounder/pkg/retrieval"
	"github.com/avise/grounder/pkg/store"
)

type Config struct {
	BaseURL      string
	DBUrl        string
	BrandID      string
	File         string
	Model        string
	EmbedModel   string
	Channel      string
	Voice        []string
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
	RateLimit    float64
	VectorDim    int
	TopK         int
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	QueryTimeout time.Duration
}

func main() {
	config, err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}

	if err := run(config); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() (Config, error) {
	var config Config
	var configPath string
	var voice string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&config.BaseURL, "ollama-url", os.Getenv("OLLAMA_BASE_URL"), "Ollama server URL")
	flag.StringVar(&config.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (empty: in-memory store)")
	flag.StringVar(&config.BrandID, "brand", "default", "Brand scope for ingestion and retrieval")
	flag.StringVar(&config.File, "file", "", "Brand guideline file to ingest before chatting")
	flag.StringVar(&config.Model, "model", "", "Generation model")
	flag.StringVar(&config.EmbedModel, "embed-model", "", "Embedding model")
	flag.StringVar(&config.Channel, "channel", "", "Content channel (blog, social, email, ...)")
	flag.StringVar(&voice, "voice", "", "Comma-separated brand voice descriptors")
	flag.IntVar(&config.ChunkSize, "chunk-size", 0, "Size of text chunks")
	flag.IntVar(&config.ChunkOverlap, "chunk-overlap", -1, "Overlap between consecutive chunks")
	flag.IntVar(&config.TopK, "top-k", 0, "Number of chunks injected as grounding context")
	flag.Parse()

	cfg, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		return Config{}, err
	}

	// Command line flags win over the config file.
	if config.BaseURL == "" {
		config.BaseURL = cfg.LLM.BaseURL
	}
	if config.DBUrl == "" {
		config.DBUrl = cfg.Database.URL
	}
	if config.Model == "" {
		config.Model = cfg.LLM.Model
	}
	if config.EmbedModel == "" {
		config.EmbedModel = cfg.LLM.EmbedModel
	}
	if config.Channel == "" {
		config.Channel = cfg.Generation.Channel
	}
	if voice != "" {
		for _, v := range strings.Split(voice, ",") {
			config.Voice = append(config.Voice, strings.TrimSpace(v))
		}
	} else {
		config.Voice = cfg.Generation.Voice
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = cfg.Ingest.ChunkSize
	}
	if config.ChunkOverlap < 0 {
		config.ChunkOverlap = cfg.Ingest.ChunkOverlap
	}
	if config.TopK == 0 {
		config.TopK = cfg.Retrieval.TopK
	}
	config.Concurrency = cfg.Ingest.Concurrency
	config.RateLimit = cfg.Ingest.RateLimit
	config.VectorDim = cfg.Database.VectorDim
	config.MaxTokens = cfg.LLM.MaxTokens
	config.Temperature = cfg.LLM.Temperature
	config.Timeout = time.Duration(cfg.Ingest.TimeoutSeconds) * time.Second
	config.QueryTimeout = time.Duration(cfg.Retrieval.TimeoutSeconds) * time.Second

	cfg.Ingest.ChunkSize = config.ChunkSize
	cfg.Ingest.ChunkOverlap = config.ChunkOverlap
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return Config{}, fmt.Errorf("invalid configuration")
	}

	return config, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("chunks"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(config Config) error {
	ctx := context.Background()

	embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     config.EmbedModel,
		BaseURL:   config.BaseURL,
		RateLimit: config.RateLimit,
		Timeout:   config.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %w", err)
	}

	chatEngine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:       config.Model,
		MaxTokens:   config.MaxTokens,
		BaseURL:     config.BaseURL,
		Temperature: config.Temperature,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %w", err)
	}

	var chunkStore types.ChunkStore
	if config.DBUrl != "" {
		pg, err := store.NewPGStore(ctx, store.PGStoreConfig{
			ConnString: config.DBUrl,
			VectorDim:  config.VectorDim,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize chunk store: %w", err)
		}
		chunkStore = pg
	} else {
		color.Yellow("No database configured, chunks will not survive this session")
		chunkStore = store.NewMemoryStore()
	}
	defer chunkStore.Close()

	retriever := retrieval.New(chunkStore, embedder, retrieval.Config{
		TopK:    config.TopK,
		Timeout: config.QueryTimeout,
	})

	if config.File != "" {
		if err := ingestFile(ctx, config, chunkStore, embedder); err != nil {
			return err
		}
	}

	chatLoop(ctx, config, retriever, chatEngine)
	return nil
}

func ingestFile(ctx context.Context, config Config, chunkStore types.ChunkStore, embedder types.Embedder) error {
	color.Blue("\nIngesting %s for brand %q", config.File, config.BrandID)

	text, err := loader.ExtractFile(config.File)
	if err != nil {
		return err
	}

	doc := models.SourceDocument{
		ID:      uuid.New().String(),
		BrandID: config.BrandID,
		Name:    filepath.Base(config.File),
		Text:    text,
	}
	if err := chunkStore.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to register document: %w", err)
	}

	bar := getProgressBar(-1, " Embedding chunks...")
	pipeline := ingest.New(chunkStore, embedder, ingest.Config{
		ChunkSize:    config.ChunkSize,
		ChunkOverlap: config.ChunkOverlap,
		Concurrency:  config.Concurrency,
		OnChunk: func(int) {
			bar.Add(1)
		},
	})

	result, err := pipeline.Ingest(ctx, doc.ID)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	color.Green("\n✓ %d chunks stored (%d embedded, %d without embedding)",
		result.ChunkCount, result.WithEmbedding, result.WithoutEmbedding)
	if result.WithoutEmbedding > 0 {
		color.Yellow("  chunks without an embedding stay out of retrieval")
	}
	return nil
}

func chatLoop(ctx context.Context, config Config, retriever types.Retriever, chatEngine types.Generator) {
	color.Cyan("\nGenerate %s content for brand %q (type 'exit' to quit)", config.Channel, config.BrandID)

	scanner := bufio.NewScanner(os.Stdin)
	userPrompt := color.New(color.FgGreen).PrintfFunc()
	assistantPrompt := color.New(color.FgCyan).PrintfFunc()

	for {
		userPrompt("\nTopic: ")
		if !scanner.Scan() {
			break
		}

		topic := strings.TrimSpace(scanner.Text())
		if topic == "" {
			continue
		}
		if strings.ToLower(topic) == "exit" {
			break
		}

		searchSpinner := getSpinner(" Retrieving brand context...")
		grounding := retriever.RetrieveContext(ctx, config.BrandID, topic, config.TopK)
		searchSpinner.Finish()

		if grounding == "" {
			color.Yellow("\nNo brand context found, generating ungrounded")
		}

		prompt := llm.BuildPrompt(grounding, models.GenerationRequest{
			Topic:   topic,
			Channel: config.Channel,
			Voice:   config.Voice,
		})

		responseSpinner := getSpinner(" Generating...")
		response, err := chatEngine.Generate(ctx, prompt)
		responseSpinner.Finish()

		if err != nil {
			color.Red("Error: %v\n", err)
			continue
		}
		assistantPrompt("\n%s\n", response)
	}
}
