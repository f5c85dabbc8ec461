package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// document is the on-disk shape of a chat's stopword record.
type document struct {
	Stopwords []string `json:"stopwords"`
}

func encodeDocument(words []string) ([]byte, error) {
	if words == nil {
		words = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(document{Stopwords: words}); err != nil {
		return nil, fmt.Errorf("encode stopwords: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeDocument(data []byte) ([]string, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode stopwords: %w", err)
	}
	if doc.Stopwords == nil {
		return []string{}, nil
	}
	return doc.Stopwords, nil
}
