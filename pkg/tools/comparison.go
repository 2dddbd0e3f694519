package tools

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

// Retriever is the search capability the comparison tool queries per
// product.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]catalog.RankedResult, error)
}

const comparisonTopK = 3

// ProductImage pairs a compared product with its catalog image.
type ProductImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Comparison holds the rendered comparison table plus product images.
type Comparison struct {
	Table  string         `json:"table"`
	Images []ProductImage `json:"images"`
}

// ComparisonTool fetches each product's passages concurrently and
// renders them side by side as a Markdown table.
type ComparisonTool struct {
	retriever Retriever
	logger    *log.Logger
}

var _ Tool = &ComparisonTool{}

func NewComparisonTool(retriever Retriever, logger *log.Logger) *ComparisonTool {
	return &ComparisonTool{
		retriever: retriever,
		logger:    logger,
	}
}

func (t *ComparisonTool) Name() string { return ComparisonName }

func (t *ComparisonTool) Description() string {
	return "So sánh thông số và giá của hai sản phẩm trở lên theo tên."
}

func (t *ComparisonTool) Run(ctx context.Context, input map[string]any) (string, error) {
	names, err := productNames(input)
	if err != nil {
		return "", err
	}
	result, err := t.Compare(ctx, names)
	if err != nil {
		return "", err
	}
	return result.Table, nil
}

// Compare builds the comparison for the given product names.
func (t *ComparisonTool) Compare(ctx context.Context, names []string) (*Comparison, error) {
	if len(names) < 2 {
		return &Comparison{Table: "Vui lòng cung cấp ít nhất hai sản phẩm để so sánh."}, nil
	}

	type productInfo struct {
		content  string
		imageURL string
	}
	infos := make([]productInfo, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results, err := t.retriever.Retrieve(ctx, name, comparisonTopK)
			if err != nil {
				t.logger.Printf("[TOOLS] Retrieval failed for %q: %v", name, err)
				infos[i] = productInfo{content: "Lỗi khi truy xuất thông tin cho " + name + "."}
				return
			}
			if len(results) == 0 {
				infos[i] = productInfo{content: "Không tìm thấy thông tin."}
				return
			}

			parts := make([]string, len(results))
			for j, r := range results {
				parts[j] = r.Passage.Content
			}
			infos[i] = productInfo{
				content:  strings.Join(parts, "\n"),
				imageURL: results[0].Passage.Metadata.ImageURL,
			}
		}(i, name)
	}
	wg.Wait()

	var images []ProductImage
	cells := make([]string, len(names))
	for i, name := range names {
		cells[i] = markdownCell(infos[i].content)
		if infos[i].imageURL != "" {
			images = append(images, ProductImage{Name: name, URL: infos[i].imageURL})
		}
	}

	var sb strings.Builder
	sb.WriteString("| Tính năng | " + strings.Join(names, " | ") + " |\n")
	sb.WriteString("|:--- |" + strings.Repeat(" :--- |", len(names)) + "\n")
	sb.WriteString("| **Thông tin chi tiết** | " + strings.Join(cells, " | ") + " |")

	return &Comparison{Table: sb.String(), Images: images}, nil
}

func markdownCell(content string) string {
	content = strings.ReplaceAll(content, "|", `\|`)
	return strings.ReplaceAll(content, "\n", "<br>")
}

func productNames(input map[string]any) ([]string, error) {
	raw, ok := input["products"]
	if !ok {
		return nil, fmt.Errorf("missing products input")
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names, nil
	}
	return nil, fmt.Errorf("products input must be a list of names")
}
