package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCallGraphFindsCallers(t *testing.T) {
	files := []FileText{
		{RelPath: "auth.go", Content: "func Validate(tok string) bool {\n  return len(tok) > 0\n}\n"},
		{RelPath: "handler.go", Content: "func Handle() {\n  if Validate(\"x\") {\n    return\n  }\n}\n"},
		{RelPath: "other.go", Content: "func Noop() {}\n"},
	}
	g := BuildCallGraph(files)
	assert.Equal(t, 1, g.CallerCount("auth.go", []string{"Validate"}))
	assert.Equal(t, 0, g.CallerCount("other.go", []string{"Noop"}))
}

func TestCallGraphNilIsSafe(t *testing.T) {
	var g *CallGraph
	assert.Equal(t, 0, g.CallerCount("a.go", []string{"Foo"}))
}

func TestBaseSymbolNameStripsQualifiers(t *testing.T) {
	assert.Equal(t, "Func", baseSymbolName("pkg.Func"))
	assert.Equal(t, "method", baseSymbolName("Type::method"))
	assert.Equal(t, "Bare", baseSymbolName("Bare"))
}
