package catalog

// Passage is one indexed catalog fragment. Immutable once indexed:
// retrieval stages read it, never write it.
type Passage struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the product fields attached to a passage.
type Metadata struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Price     int64  `json:"price,omitempty"` // VND, 0 when unknown
	ImageURL  string `json:"image_url,omitempty"`
	Topic     string `json:"topic,omitempty"`
}

// Source tags which retrieval stage produced a RankedResult.
type Source string

const (
	SourceLexical  Source = "lexical"
	SourceVector   Source = "vector"
	SourceFused    Source = "fused"
	SourceReranked Source = "reranked"
)

// RankedResult is a transient per-query scoring of one passage.
type RankedResult struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
	Source  Source  `json:"source"`
}

// WelcomePassage is the sentinel seeded into both indexes when the
// corpus is empty, so queries always have something to return.
func WelcomePassage() Passage {
	return Passage{
		ID:      "welcome",
		Content: "Chào mừng bạn đến với shop điện thoại!",
		Metadata: Metadata{
			ProductID: "default",
			Title:     "Shop điện thoại",
			Topic:     "welcome",
		},
	}
}
