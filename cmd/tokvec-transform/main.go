package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/cognicore/tokvec/internal/corpusio"
	"github.com/cognicore/tokvec/pkg/tokvec"
	"github.com/cognicore/tokvec/pkg/tokvec/sparse"
	"github.com/cognicore/tokvec/pkg/tokvec/store/sqlite"
)

// tripletOutput is the sparse output form: one [row, col, value] triple
// per stored entry, row-major.
type tripletOutput struct {
	ModelID string   `json:"model_id"`
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"`
	Cells   [][3]any `json:"cells"`
}

func main() {
	var (
		dbPath     = flag.String("db", "", "Model database path (required)")
		modelID    = flag.String("model", "", "Model ID to transform with (required)")
		corpusPath = flag.String("corpus", "", "Input corpus JSONL file (required)")
		format     = flag.String("format", "triplets", "Output format: triplets or dense")
		outPath    = flag.String("out", "", "Output file (default stdout)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}
	if *modelID == "" {
		log.Fatal("--model required")
	}
	if *corpusPath == "" {
		log.Fatal("--corpus required")
	}
	if *format != "triplets" && *format != "dense" {
		log.Fatalf("--format must be triplets or dense, got %q", *format)
	}

	ctx := context.Background()

	store, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	engine := tokvec.New(tokvec.Options{Store: store})
	defer engine.Close()

	corpus, err := corpusio.ReadCorpus(*corpusPath)
	if err != nil {
		log.Fatal("Failed to load corpus:", err)
	}
	log.Printf("Loaded %d sequences from %s", len(corpus), *corpusPath)

	matrix, err := engine.Transform(ctx, *modelID, corpus)
	if err != nil {
		log.Fatal("Failed to transform corpus:", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal("Failed to create output file:", err)
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "triplets":
		err = writeTriplets(out, *modelID, matrix)
	case "dense":
		err = writeDense(out, matrix)
	}
	if err != nil {
		log.Fatal("Failed to write output:", err)
	}

	rows, cols := matrix.Dims()
	log.Printf("✓ Transformed into a %dx%d matrix with %d stored entries",
		rows, cols, matrix.NNZ())
}

func writeTriplets(f *os.File, id string, m *sparse.CSR) error {
	rows, cols := m.Dims()
	out := tripletOutput{
		ModelID: id,
		Rows:    rows,
		Cols:    cols,
		Cells:   make([][3]any, 0, m.NNZ()),
	}
	m.NonZero(func(i, j int, v float64) {
		out.Cells = append(out.Cells, [3]any{i, j, v})
	})

	enc := json.NewEncoder(f)
	return enc.Encode(out)
}

// writeDense emits one JSON array per matrix row.
func writeDense(f *os.File, m *sparse.CSR) error {
	rows, cols := m.Dims()
	enc := json.NewEncoder(f)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		indices, values := m.Row(i)
		for k, j := range indices {
			row[j] = values[k]
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
