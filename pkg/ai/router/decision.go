package router

import "strings"

// Kind names the execution path a classified utterance takes.
type Kind string

const (
	KindChat       Kind = "chat"
	KindRetrieval  Kind = "retrieval"
	KindComparison Kind = "comparison"
)

// Decision is the tagged routing outcome: exactly one variant is ever
// active, and callers always get one (classification never errors out).
type Decision struct {
	Kind     Kind
	Info     string   // chat/retrieval payload
	Products []string // comparison payload, ≥ 2 entries
}

// rawDecision is the shape the model is asked to produce.
type rawDecision struct {
	Router   string   `json:"router"`
	Info     string   `json:"infor"`
	Products []string `json:"products"`
}

// validate checks the parsed object against the three decision schemas
// in a fixed order; the first that holds wins.
func (r rawDecision) validate() (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(r.Router)) {
	case "chat":
		return Decision{Kind: KindChat, Info: strings.TrimSpace(r.Info)}, true
	case "retrieval":
		info := strings.TrimSpace(r.Info)
		if info == "" {
			return Decision{}, false
		}
		return Decision{Kind: KindRetrieval, Info: info}, true
	case "comparison":
		products := make([]string, 0, len(r.Products))
		for _, p := range r.Products {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				products = append(products, trimmed)
			}
		}
		if len(products) < 2 {
			return Decision{}, false
		}
		return Decision{Kind: KindComparison, Products: products}, true
	}
	return Decision{}, false
}
