// Package library keeps a full-text index over stored resumes so the library
// can be browsed by free-text query.
package library

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/screener/internal/models"
)

// DefaultFuzziness is the edit distance allowed per query term in fuzzy mode.
const DefaultFuzziness = 2

// Hit is one resume that matched a query.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// indexedResume is the document shape stored in bleve.
type indexedResume struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Index is a bleve index of resume filenames and text.
type Index struct {
	index bleve.Index
}

func newMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase and tokenize, no stemming
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("filename", textFieldMapping)
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	im.AddDocumentMapping("resume", docMapping)
	im.DefaultType = "resume"
	im.DefaultMapping = docMapping
	return im
}

// NewIndex creates or opens an index at path. An existing index is reused
// as is; delete the directory after changing the mapping.
func NewIndex(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open resume index: %w", openErr)
		}
		return &Index{index: index}, nil
	}

	index, err := bleve.New(path, newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create resume index: %w", err)
	}
	return &Index{index: index}, nil
}

// NewMemoryIndex creates an index that lives only in memory.
func NewMemoryIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create resume index: %w", err)
	}
	return &Index{index: index}, nil
}

// Index adds or replaces a resume.
func (x *Index) Index(ctx context.Context, r *models.Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r == nil || r.ID == "" {
		return fmt.Errorf("resume without id cannot be indexed")
	}
	return x.index.Index(r.ID, indexedResume{Filename: r.Filename, Text: r.Text})
}

// Delete removes a resume. Deleting an unknown id is not an error.
func (x *Index) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return x.index.Delete(id)
}

// Search returns up to limit resumes matching query, best first. With fuzzy
// set, each term tolerates DefaultFuzziness edits.
func (x *Index) Search(ctx context.Context, query string, limit int, fuzzy bool) ([]*Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Hit{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var q blevequery.Query
	if fuzzy {
		q = buildFuzzyQuery(query, DefaultFuzziness)
	} else {
		q = bleve.NewMatchQuery(query)
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := x.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("resume search failed: %w", err)
	}
	out := make([]*Hit, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Hit{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// DocCount returns how many resumes are indexed.
func (x *Index) DocCount() (uint64, error) {
	return x.index.DocCount()
}

// Close closes the index.
func (x *Index) Close() error {
	return x.index.Close()
}

// buildFuzzyQuery ORs one FuzzyQuery per lowercased term.
func buildFuzzyQuery(query string, fuzziness int) blevequery.Query {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 1 {
		fq := bleve.NewFuzzyQuery(terms[0])
		fq.SetFuzziness(fuzziness)
		return fq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		queries = append(queries, fq)
	}
	return bleve.NewDisjunctionQuery(queries...)
}
