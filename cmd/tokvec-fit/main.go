package main

import (
	"context"
	"flag"
	"log"

	"github.com/cognicore/tokvec/internal/corpusio"
	"github.com/cognicore/tokvec/pkg/tokvec"
	"github.com/cognicore/tokvec/pkg/tokvec/config"
	"github.com/cognicore/tokvec/pkg/tokvec/store/sqlite"
)

func main() {
	var (
		corpusPath = flag.String("corpus", "", "Input corpus JSONL file (required)")
		configPath = flag.String("config", "", "Vectorizer config YAML (optional)")
		dictPath   = flag.String("dict", "", "Fixed token dictionary YAML (optional)")
		dbPath     = flag.String("db", "", "Model database path (required)")
	)
	flag.Parse()

	if *corpusPath == "" {
		log.Fatal("--corpus required")
	}
	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	loader := config.Loader{
		ConfigPath:     *configPath,
		DictionaryPath: *dictPath,
	}
	cfg, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	corpus, err := corpusio.ReadCorpus(*corpusPath)
	if err != nil {
		log.Fatal("Failed to load corpus:", err)
	}
	log.Printf("Loaded %d sequences from %s", len(corpus), *corpusPath)

	store, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	engine := tokvec.New(tokvec.Options{Store: store})
	defer engine.Close()

	id, model, err := engine.FitAndSave(ctx, corpus, cfg)
	if err != nil {
		log.Fatal("Failed to fit model:", err)
	}

	mcfg := model.Config()
	rows, cols := model.Matrix().Dims()
	log.Printf("Fitted %dx%d matrix with %d stored entries (radius %d, %s, %s)",
		rows, cols, model.Matrix().NNZ(),
		mcfg.WindowRadius, mcfg.Orientation, mcfg.WindowFunction)
	log.Printf("✓ Model saved as %s", id)
}
