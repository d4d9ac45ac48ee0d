package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/kelvad/textprep/internal/models"
	"github.com/kelvad/textprep/internal/types"
	cfgPkg "github.com/kelvad/textprep/pkg/config"
	"github.com/kelvad/textprep/pkg/ingest"
	"github.com/kelvad/textprep/pkg/loader"
	"github.com/kelvad/textprep/pkg/store"
)

type Config struct {
	Dir               string
	DBUrl             string
	TableName         string
	VectorDim         int
	BatchSize         int
	RateLimit         float64
	ChunkSize         int
	ChunkOverlap      int
	Separators        []string
	AllowedExtensions []string
	IgnorePatterns    []string
	DryRun            bool
}

func main() {
	config := parseFlags()

	if err := run(config); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Config {
	var config Config
	var configPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&config.Dir, "dir", ".", "Directory with documents to ingest")
	flag.StringVar(&config.DBUrl, "db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flag.StringVar(&config.TableName, "table", "documents", "PostgreSQL table name")
	flag.IntVar(&config.VectorDim, "vector-dim", 1536, "Vector dimension")
	flag.IntVar(&config.BatchSize, "batch-size", 100, "Batch size for database operations")
	flag.Float64Var(&config.RateLimit, "rate-limit", 0, "Database batch writes per second (0 = unlimited)")
	flag.IntVar(&config.ChunkSize, "chunk-size", 500, "Size of text chunks")
	flag.IntVar(&config.ChunkOverlap, "chunk-overlap", 50, "Overlap between consecutive chunks")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Chunk documents without storing them")
	flag.Parse()

	// Load config file if specified
	if cfg, err := cfgPkg.LoadConfig(configPath); err == nil {
		if errors := cfg.Validate(); len(errors) > 0 {
			for _, e := range errors {
				color.Red("config: %v\n", e)
			}
			log.Fatal("invalid configuration")
		}

		if config.DBUrl == "" {
			config.DBUrl = cfg.Database.URL
		}
		config.TableName = cfg.Database.TableName
		config.VectorDim = cfg.Database.VectorDim
		config.BatchSize = cfg.Database.BatchSize
		config.RateLimit = cfg.Database.RateLimit
		config.ChunkSize = cfg.Chunker.ChunkSize
		config.ChunkOverlap = cfg.Chunker.ChunkOverlap
		config.Separators = cfg.Chunker.Separators
		config.AllowedExtensions = cfg.Loader.AllowedExtensions
		config.IgnorePatterns = cfg.Loader.IgnorePatterns
	}

	return config
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func run(config Config) error {
	fileLoader := loader.NewWithConfig(loader.LoaderConfig{
		AllowedExtensions: config.AllowedExtensions,
		IgnorePatterns:    config.IgnorePatterns,
	})

	ingestor, err := ingest.NewWithConfig(ingest.IngestorConfig{
		ChunkSize:    config.ChunkSize,
		ChunkOverlap: config.ChunkOverlap,
		Separators:   config.Separators,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize ingestor: %v", err)
	}

	var vectorStore types.Store
	if !config.DryRun {
		vectorStore, err = store.NewWithConfig(store.VectorStoreConfig{
			ConnString: config.DBUrl,
			TableName:  config.TableName,
			VectorDim:  config.VectorDim,
			BatchSize:  config.BatchSize,
			RateLimit:  config.RateLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize vector store: %v", err)
		}
		defer vectorStore.Close()
	}

	paths, err := fileLoader.Walk(config.Dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %v", config.Dir, err)
	}
	if len(paths) == 0 {
		color.Yellow("No ingestable files under %s\n", config.Dir)
		return nil
	}

	bar := getProgressBar(len(paths), "📄 Chunking documents...")
	ctx := context.Background()

	var totalChunks, failed int
	startTime := time.Now()

	for _, path := range paths {
		// One bad source must not stop the rest.
		docs, err := ingestSource(fileLoader, ingestor, path)
		if err != nil {
			color.Red("\n✗ %s: %v\n", path, err)
			failed++
			bar.Add(1)
			continue
		}

		if vectorStore != nil && len(docs) > 0 {
			if _, err := vectorStore.Add(ctx, docs); err != nil {
				color.Red("\n✗ %s: %v\n", path, err)
				failed++
				bar.Add(1)
				continue
			}
		}

		totalChunks += len(docs)
		bar.Add(1)

		// Update rate
		elapsed := time.Since(startTime).Seconds()
		rate := float64(totalChunks) / elapsed
		bar.Describe(color.BlueString(
			"📄 Chunking documents... (%.1f chunks/sec)", rate))
	}
	bar.Finish()

	color.Green("\n✓ Ingested %d chunks from %d sources\n", totalChunks, len(paths)-failed)
	if failed > 0 {
		color.Yellow("⚠ Skipped %d failed sources\n", failed)
	}
	return nil
}

func ingestSource(l *loader.Loader, ing *ingest.Ingestor, path string) ([]models.Document, error) {
	src, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	if src.Paginated() {
		return ing.IngestPages(src.Pages, src.ID, src.Extra), nil
	}
	return ing.IngestText(src.Text, src.ID, src.Extra), nil
}
