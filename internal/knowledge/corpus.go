package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xaenox/eldric/internal/models"
	"github.com/xaenox/eldric/internal/storage"
)

type corpusEntry struct {
	Content string  `json:"content"`
	Tags    tagList `json:"tags"`
}

// tagList accepts either "a,b" or ["a", "b"].
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*t = strings.Split(joined, ",")
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings: %w", err)
	}
	*t = list
	return nil
}

// LoadCorpus parses a JSON array of {content, tags} objects. Tags are
// trimmed and comma-joined; entries without content are skipped.
func LoadCorpus(r io.Reader) ([]models.KnowledgeChunk, error) {
	var entries []corpusEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("error decoding corpus: %w", err)
	}

	chunks := make([]models.KnowledgeChunk, 0, len(entries))
	for _, e := range entries {
		content := strings.TrimSpace(e.Content)
		if content == "" {
			continue
		}
		tags := lo.Compact(lo.Map(e.Tags, func(tag string, _ int) string {
			return strings.TrimSpace(tag)
		}))
		chunks = append(chunks, models.KnowledgeChunk{
			Content: content,
			Tags:    strings.Join(tags, ","),
		})
	}
	return chunks, nil
}

// Ingest inserts chunks one by one and returns how many were stored.
func Ingest(ctx context.Context, store storage.KnowledgeStorage, chunks []models.KnowledgeChunk) (int, error) {
	for i := range chunks {
		if err := store.InsertKnowledge(ctx, &chunks[i]); err != nil {
			return i, fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return len(chunks), nil
}
