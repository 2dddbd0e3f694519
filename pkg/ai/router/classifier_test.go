package router

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/TrvKhanh/rag-mobile/pkg/llm"
)

type fakeProvider struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.calls > len(f.responses) {
		return f.responses[len(f.responses)-1], nil
	}
	return f.responses[f.calls-1], nil
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeProvider) Stream(_ context.Context, _ []llm.Message, _ llm.StreamFunc, _ ...llm.Option) error {
	return errors.New("not implemented")
}

func newClassifier(p *fakeProvider) *Classifier {
	return NewClassifier(p, log.New(os.Stderr, "[test] ", log.LstdFlags))
}

func TestClassifyGreetingUsesFastPath(t *testing.T) {
	provider := &fakeProvider{}
	c := newClassifier(provider)

	decision := c.Classify(context.Background(), "chào bạn")

	if decision.Kind != KindChat {
		t.Fatalf("expected chat decision, got %s", decision.Kind)
	}
	if decision.Info != "chào bạn" {
		t.Errorf("expected info to carry the utterance, got %q", decision.Info)
	}
	if provider.calls != 0 {
		t.Errorf("fast path must not invoke the model, got %d calls", provider.calls)
	}
}

func TestClassifyRetrievalFromModelOutput(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"router":"retrieval","infor":"iphone 16"}`,
	}}
	c := newClassifier(provider)

	decision := c.Classify(context.Background(), "cho mình hỏi iphone 16 giá bao nhiêu")

	if decision.Kind != KindRetrieval {
		t.Fatalf("expected retrieval decision, got %s", decision.Kind)
	}
	if decision.Info != "iphone 16" {
		t.Errorf("expected info %q, got %q", "iphone 16", decision.Info)
	}
}

func TestClassifyStripsFencesAndRepairsArtifacts(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"```json\n{'router': 'comparison', 'products': ['iPhone 16', 'Galaxy S25',]}\n```",
	}}
	c := newClassifier(provider)

	decision := c.Classify(context.Background(), "so sánh iphone 16 với galaxy s25")

	if decision.Kind != KindComparison {
		t.Fatalf("expected comparison decision, got %s", decision.Kind)
	}
	if len(decision.Products) != 2 {
		t.Fatalf("expected 2 products, got %v", decision.Products)
	}
}

func TestClassifySingleProductComparisonFailsValidation(t *testing.T) {
	// A one-product comparison never validates; retries exhaust and the
	// fallback takes over.
	provider := &fakeProvider{responses: []string{
		`{"router":"comparison","products":["iphone 16"]}`,
	}}
	c := newClassifier(provider)

	decision := c.Classify(context.Background(), "so sánh iphone 16")

	if decision.Kind != KindRetrieval {
		t.Fatalf("expected retrieval fallback, got %s", decision.Kind)
	}
	if decision.Info != "so sánh iphone 16" {
		t.Errorf("fallback must carry the original utterance, got %q", decision.Info)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 attempts before fallback, got %d", provider.calls)
	}
}

func TestClassifyMalformedOutputFallsBackToRetrieval(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		"mình không chắc lắm",
		"vẫn không phải JSON",
		"{broken",
	}}
	c := newClassifier(provider)

	decision := c.Classify(context.Background(), "  điện thoại pin trâu  ")

	if decision.Kind != KindRetrieval {
		t.Fatalf("expected retrieval fallback, got %s", decision.Kind)
	}
	if decision.Info != "điện thoại pin trâu" {
		t.Errorf("expected trimmed utterance, got %q", decision.Info)
	}
}

func TestClassifyRetrievalRequiresNonEmptyInfo(t *testing.T) {
	provider := &fakeProvider{responses: []string{
		`{"router":"retrieval","infor":"   "}`,
		`{"router":"retrieval","infor":"pin 5000mah"}`,
	}}
	c := newClassifier(provider)

	decision := c.Classify(context.Background(), "máy nào pin 5000mah")

	if decision.Kind != KindRetrieval || decision.Info != "pin 5000mah" {
		t.Fatalf("expected second attempt to win, got %+v", decision)
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", provider.calls)
	}
}

func TestExtractJSONBlockFindsFirstBalancedObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"surrounded", `sure! {"a":1} hope that helps`, `{"a":1}`, true},
		{"nested", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}"}`, `{"a":"}"}`, true},
		{"none", `no object here`, "", false},
		{"unbalanced", `{"a":1`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONBlock(tt.input)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected an error")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"python literals", `{"a": True, "b": False, "c": None}`, `{"a": true, "b": false, "c": null}`},
		{"single quotes", `{'router': 'chat'}`, `{"router": "chat"}`},
		{"trailing comma", `{"a": [1, 2,], "b": 3,}`, `{"a": [1, 2], "b": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repairJSON(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
