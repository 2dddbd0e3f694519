package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed stores.json
var storesData []byte

type storeBranch struct {
	City    string `json:"city"`
	Address string `json:"address"`
}

// StoreLocatorTool answers "which branches are in city X" from the
// bundled branch list.
type StoreLocatorTool struct {
	stores []storeBranch
}

var _ Tool = &StoreLocatorTool{}

func NewStoreLocatorTool() (*StoreLocatorTool, error) {
	var data struct {
		Stores []storeBranch `json:"stores"`
	}
	if err := json.Unmarshal(storesData, &data); err != nil {
		return nil, fmt.Errorf("failed to load store data: %w", err)
	}
	return &StoreLocatorTool{stores: data.Stores}, nil
}

func (t *StoreLocatorTool) Name() string { return StoreLocatorName }

func (t *StoreLocatorTool) Description() string {
	return "Tìm địa chỉ chi nhánh cửa hàng theo tên thành phố, ví dụ \"Hà Nội\" hoặc \"Hồ Chí Minh\"."
}

func (t *StoreLocatorTool) Run(_ context.Context, input map[string]any) (string, error) {
	city, _ := input["city"].(string)
	return t.Locate(city), nil
}

// Locate lists branches whose city matches, substring and
// case-insensitive.
func (t *StoreLocatorTool) Locate(city string) string {
	normalized := strings.ToLower(strings.TrimSpace(city))
	if normalized == "" {
		return "Vui lòng cho mình biết bạn đang ở thành phố nào nhé."
	}

	var found []storeBranch
	for _, s := range t.stores {
		if strings.Contains(strings.ToLower(s.City), normalized) {
			found = append(found, s)
		}
	}
	if len(found) == 0 {
		return fmt.Sprintf("Rất tiếc, không tìm thấy cửa hàng nào ở '%s'.", city)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tìm thấy %d cửa hàng ở %s:\n", len(found), city)
	for _, s := range found {
		sb.WriteString("- " + s.Address + "\n")
	}
	return sb.String()
}
