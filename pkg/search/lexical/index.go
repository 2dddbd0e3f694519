package lexical

import (
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

// BM25 parameters, the usual defaults.
const (
	k1 = 1.5
	b  = 0.75
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize lowercases and splits on non-alphanumeric runes. Vietnamese
// diacritics are preserved so "điện thoại" stays distinct from "dien thoai".
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

type document struct {
	passage catalog.Passage
	tf      map[string]int
	length  int
}

// Index is an in-memory BM25 index over the catalog corpus. Queries are
// read-locked so searches run concurrently; Rebuild swaps the whole
// corpus under the write lock.
type Index struct {
	mu          sync.RWMutex
	docs        []document
	df          map[string]int
	avgdl       float64
	welcomeOnly bool
	logger      *log.Logger
}

func NewIndex(logger *log.Logger) *Index {
	return &Index{
		df:     make(map[string]int),
		logger: logger,
	}
}

// Rebuild replaces the indexed corpus. An empty corpus gets the welcome
// sentinel so queries never come back empty-handed.
func (idx *Index) Rebuild(passages []catalog.Passage) {
	welcomeOnly := len(passages) == 0
	if welcomeOnly {
		passages = []catalog.Passage{catalog.WelcomePassage()}
	}

	docs := make([]document, 0, len(passages))
	df := make(map[string]int, len(passages)*8)
	totalLen := 0

	for _, p := range passages {
		terms := Tokenize(p.Content + " " + p.Metadata.Title)
		tf := make(map[string]int, len(terms))
		for _, t := range terms {
			tf[t]++
		}
		for t := range tf {
			df[t]++
		}
		totalLen += len(terms)
		docs = append(docs, document{passage: p, tf: tf, length: len(terms)})
	}

	idx.mu.Lock()
	idx.docs = docs
	idx.df = df
	idx.avgdl = float64(totalLen) / float64(len(docs))
	idx.welcomeOnly = welcomeOnly
	idx.mu.Unlock()

	idx.logger.Printf("[INFO] Lexical index rebuilt with %d passages", len(docs))
}

// Size reports how many passages are currently indexed.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Search scores every indexed passage against the query with BM25 and
// returns the topK highest, ties broken by passage ID for stable order.
func (idx *Index) Search(query string, topK int) []catalog.RankedResult {
	terms := Tokenize(query)
	if len(terms) == 0 || topK <= 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := float64(len(idx.docs))
	if n == 0 {
		return nil
	}

	results := make([]catalog.RankedResult, 0, len(idx.docs))
	for _, doc := range idx.docs {
		score := 0.0
		for _, term := range terms {
			freq := doc.tf[term]
			if freq == 0 {
				continue
			}
			df := float64(idx.df[term])
			id := math.Log(1 + (n-df+0.5)/(df+0.5))
			tfNorm := float64(freq) * (k1 + 1) /
				(float64(freq) + k1*(1-b+b*float64(doc.length)/idx.avgdl))
			score += id * tfNorm
		}
		if score > 0 {
			results = append(results, catalog.RankedResult{
				Passage: doc.passage,
				Score:   score,
				Source:  catalog.SourceLexical,
			})
		}
	}

	// A sentinel-only index answers every query with the welcome
	// passage, even when no term overlaps.
	if len(results) == 0 && idx.welcomeOnly {
		return []catalog.RankedResult{{
			Passage: idx.docs[0].passage,
			Score:   0,
			Source:  catalog.SourceLexical,
		}}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Passage.ID < results[j].Passage.ID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
