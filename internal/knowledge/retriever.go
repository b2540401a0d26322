package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaenox/eldric/internal/storage"
	"go.uber.org/zap"
)

// Header opens every non-empty knowledge block.
const Header = "\n\nConocimiento relevante para esta conversación:\n"

// MaxChunks is the number of chunks injected per turn.
const MaxChunks = 5

// Retriever looks up knowledge chunks by tag. Matching is a substring scan
// over the tags column, which is fine for a few thousand rows.
type Retriever struct {
	store  storage.KnowledgeStorage
	limit  int
	logger *zap.Logger
}

func NewRetriever(store storage.KnowledgeStorage, logger *zap.Logger) *Retriever {
	return &Retriever{
		store:  store,
		limit:  MaxChunks,
		logger: logger,
	}
}

// Retrieve returns the formatted knowledge block for tags, or "" when there
// are no tags, no matches, or the lookup fails.
func (r *Retriever) Retrieve(ctx context.Context, tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	chunks, err := r.store.SearchKnowledge(ctx, tags, r.limit)
	if err != nil {
		r.logger.Warn("Failed to retrieve knowledge",
			zap.Error(err),
			zap.Strings("tags", tags))
		return ""
	}
	return Format(chunks)
}

// Format numbers chunks from 1 under Header.
func Format(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header)
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, chunk)
	}
	return b.String()
}
