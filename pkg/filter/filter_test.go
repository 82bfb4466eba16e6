package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterNoneIsPassthrough(t *testing.T) {
	src := "fn main() {\n    /* comment */\n    println!(\"x\");\n}\n"
	assert.Equal(t, src, Filter(src, LevelNone, LangRust))
}

func TestFilterMinimalStripsBlockComments(t *testing.T) {
	src := "fn main() {\n/* block\ncomment */\nlet x = 1;\n}\n"
	out := Filter(src, LevelMinimal, LangRust)
	assert.NotContains(t, out, "block")
	assert.Contains(t, out, "let x = 1;")
}

func TestFilterMinimalCompressesBlanks(t *testing.T) {
	src := "a\n\n\n\n\nb\n"
	out := Filter(src, LevelMinimal, LangUnknown)
	assert.NotContains(t, out, "\n\n\n")
}

func TestFilterAggressiveKeepsTopLevelDecls(t *testing.T) {
	src := "func Foo() {\n\tx := 1\n\t_ = x\n}\n\nfunc Bar() {}\n"
	out := Filter(src, LevelAggressive, LangGo)
	assert.Contains(t, out, "func Foo()")
	assert.Contains(t, out, "func Bar()")
}

func TestFromExtension(t *testing.T) {
	assert.Equal(t, LangGo, FromExtension(".go"))
	assert.Equal(t, LangRust, FromExtension("rs"))
	assert.Equal(t, LangUnknown, FromExtension(".xyz"))
}

func TestSliceLines(t *testing.T) {
	src := "1\n2\n3\n4\n5"
	assert.Equal(t, "2\n3", SliceLines(src, 2, 3))
	assert.Equal(t, src, SliceLines(src, 0, 0))
}

func TestSmartTruncateInsertsMarker(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "line"
	}
	src := joinLines(lines)
	out := SmartTruncate(src, 10, LangUnknown)
	assert.Contains(t, out, "truncated")
}

func TestSmartTruncateNoOpUnderLimit(t *testing.T) {
	src := "a\nb\nc"
	assert.Equal(t, src, SmartTruncate(src, 10, LangUnknown))
}

func TestLongLineClampAggressive(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	out := LongLineClamp(string(long), LevelAggressive)
	assert.Contains(t, out, "clamped")
	assert.Less(t, len(out), 300)
}

func TestDedupRepetitiveBlocks(t *testing.T) {
	src := "a\nb\nb\nb\nb\nc"
	out := DedupRepetitiveBlocks(src)
	assert.Contains(t, out, "repeated")
}

func TestDedupLeavesShortRunsAlone(t *testing.T) {
	src := "a\nb\nb\nc"
	out := DedupRepetitiveBlocks(src)
	assert.Equal(t, src, out)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
