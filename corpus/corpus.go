// Package corpus loads labeled documents from JSONL files.
//
// Each line holds one JSON object: {"id": ..., "text": ..., "label": ...}.
// Blank lines are skipped.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// Document is one labeled text to be embedded and aggregated.
type Document struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Load reads a JSONL corpus from path.
func Load(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()

	docs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}

	return docs, nil
}

// Read parses a JSONL corpus from r. Documents without an explicit id get a
// sequential one.
func Read(r io.Reader) ([]Document, error) {
	var docs []Document

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var doc Document
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if doc.ID == "" {
			doc.ID = fmt.Sprintf("doc-%d", len(docs)+1)
		}

		docs = append(docs, doc)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", line, err)
	}

	return docs, nil
}

// Shuffle permutes docs in place using the given seed. The same seed always
// produces the same order.
func Shuffle(docs []Document, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(docs), func(i, j int) {
		docs[i], docs[j] = docs[j], docs[i]
	})
}
