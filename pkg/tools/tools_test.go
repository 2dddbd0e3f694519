package tools

import (
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

type stubRetriever struct {
	byQuery map[string][]catalog.RankedResult
	err     error
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, _ int) ([]catalog.RankedResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byQuery[query], nil
}

func result(content, imageURL string) catalog.RankedResult {
	return catalog.RankedResult{
		Passage: catalog.Passage{
			Content:  content,
			Metadata: catalog.Metadata{ProductID: content, ImageURL: imageURL},
		},
		Score: 1.0,
	}
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func TestCompareRendersTableWithImages(t *testing.T) {
	retriever := &stubRetriever{byQuery: map[string][]catalog.RankedResult{
		"iPhone 16":  {result("Màn 6.1 inch, chip A18", "https://example.com/ip16.jpg")},
		"Galaxy S25": {result("Màn 6.2 inch, Snapdragon 8 Elite", "")},
	}}
	tool := NewComparisonTool(retriever, testLogger())

	cmp, err := tool.Compare(context.Background(), []string{"iPhone 16", "Galaxy S25"})
	assert.NoError(t, err)

	assert.Contains(t, cmp.Table, "| Tính năng | iPhone 16 | Galaxy S25 |")
	assert.Contains(t, cmp.Table, "chip A18")
	assert.Contains(t, cmp.Table, "Snapdragon 8 Elite")
	assert.Len(t, cmp.Images, 1)
	assert.Equal(t, "iPhone 16", cmp.Images[0].Name)
}

func TestCompareRequiresTwoProducts(t *testing.T) {
	tool := NewComparisonTool(&stubRetriever{}, testLogger())

	cmp, err := tool.Compare(context.Background(), []string{"iPhone 16"})
	assert.NoError(t, err)
	assert.Contains(t, cmp.Table, "ít nhất hai sản phẩm")
	assert.Empty(t, cmp.Images)
}

func TestCompareHandlesMissingProducts(t *testing.T) {
	retriever := &stubRetriever{byQuery: map[string][]catalog.RankedResult{
		"iPhone 16": {result("Màn 6.1 inch", "")},
	}}
	tool := NewComparisonTool(retriever, testLogger())

	cmp, err := tool.Compare(context.Background(), []string{"iPhone 16", "Nokia 3310"})
	assert.NoError(t, err)
	assert.Contains(t, cmp.Table, "Không tìm thấy thông tin.")
}

func TestCompareEscapesMarkdown(t *testing.T) {
	retriever := &stubRetriever{byQuery: map[string][]catalog.RankedResult{
		"a": {result("cột | dọc\nxuống dòng", "")},
		"b": {result("nội dung", "")},
	}}
	tool := NewComparisonTool(retriever, testLogger())

	cmp, err := tool.Compare(context.Background(), []string{"a", "b"})
	assert.NoError(t, err)
	assert.Contains(t, cmp.Table, `cột \| dọc<br>xuống dòng`)
}

func TestStoreLocatorFindsBranchesByCity(t *testing.T) {
	tool, err := NewStoreLocatorTool()
	assert.NoError(t, err)

	out := tool.Locate("hà nội")
	assert.True(t, strings.HasPrefix(out, "Tìm thấy 2 cửa hàng"))
	assert.Contains(t, out, "Thái Hà")
}

func TestStoreLocatorUnknownCity(t *testing.T) {
	tool, err := NewStoreLocatorTool()
	assert.NoError(t, err)

	out := tool.Locate("Paris")
	assert.Contains(t, out, "không tìm thấy cửa hàng nào")
}

func TestRegistryLookup(t *testing.T) {
	locator, err := NewStoreLocatorTool()
	assert.NoError(t, err)
	registry := NewRegistry(locator)

	got, err := registry.Get(StoreLocatorName)
	assert.NoError(t, err)
	assert.Equal(t, locator, got)

	_, err = registry.Get("does_not_exist")
	assert.Error(t, err)
}

func TestRegistryRunsToolByName(t *testing.T) {
	locator, err := NewStoreLocatorTool()
	assert.NoError(t, err)
	registry := NewRegistry(locator)

	tool, err := registry.Get(StoreLocatorName)
	assert.NoError(t, err)

	out, err := tool.Run(context.Background(), map[string]any{"city": "đà nẵng"})
	assert.NoError(t, err)
	assert.Contains(t, out, "Nguyễn Văn Linh")
}
