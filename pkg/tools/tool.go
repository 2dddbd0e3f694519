package tools

import (
	"context"
	"fmt"
)

// Registered tool names.
const (
	ComparisonName   = "compare_products"
	StoreLocatorName = "find_nearby_stores"
)

// Tool is an auxiliary capability the chat service can invoke for a
// routed request.
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, input map[string]any) (string, error)
}

// Registry is an explicit name-to-tool lookup, populated once at
// startup.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Get resolves a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t, nil
}

// Names lists the registered tools.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
