package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/cognicore/tokvec/internal/corpusio"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
)

func main() {
	var (
		inPath  = flag.String("in", "", "HTML file or directory (required)")
		outPath = flag.String("out", "", "Output corpus JSONL file (required)")
	)
	flag.Parse()

	if *inPath == "" {
		log.Fatal("--in required")
	}
	if *outPath == "" {
		log.Fatal("--out required")
	}

	files, err := htmlFiles(*inPath)
	if err != nil {
		log.Fatal("Failed to list input files:", err)
	}
	if len(files) == 0 {
		log.Fatalf("No HTML files under %s", *inPath)
	}

	var corpus token.Corpus
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("Failed to read input:", err)
		}

		words := tokenize(extractText(string(data)))
		corpus = append(corpus, token.Strs(words...))
		log.Printf("Extracted %d tokens from %s", len(words), path)
	}

	if err := corpusio.WriteCorpus(*outPath, corpus); err != nil {
		log.Fatal("Failed to write corpus:", err)
	}
	log.Printf("✓ Wrote %d sequences to %s", len(corpus), *outPath)
}

// htmlFiles returns the input path itself for a file, or the .html and
// .htm files directly under it for a directory, sorted by name so the
// corpus row order is reproducible.
func htmlFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".htm":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// extractText collects the text nodes of an HTML document, skipping
// script and style contents.
func extractText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

// tokenize lowercases and splits on anything that is not a letter or
// digit.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return words
}
