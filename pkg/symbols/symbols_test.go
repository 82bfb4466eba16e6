package symbols

import (
	"strings"
	"testing"

	"github.com/heAdz0r/rtk/pkg/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRustFunction(t *testing.T) {
	src := "pub fn refresh_token(session: &Session) -> String {\n    session.token()\n}\n"
	syms := Extract(src, filter.LangRust)
	require.Len(t, syms, 1)
	assert.Equal(t, "refresh_token", syms[0].Name)
	assert.Equal(t, KindFunction, syms[0].Kind)
	assert.Equal(t, VisPublic, syms[0].Vis)
}

func TestExtractRustMethodHasParent(t *testing.T) {
	src := "impl Foo for Bar {\n    pub fn baz(&self) {}\n}\n"
	syms := Extract(src, filter.LangRust)
	require.Len(t, syms, 1)
	assert.Equal(t, KindMethod, syms[0].Kind)
	assert.Equal(t, "Bar", syms[0].Parent)
}

func TestExtractGoVisibility(t *testing.T) {
	src := "func Public() {}\nfunc private() {}\n"
	syms := Extract(src, filter.LangGo)
	require.Len(t, syms, 2)
	assert.Equal(t, VisPublic, syms[0].Vis)
	assert.Equal(t, VisPrivate, syms[1].Vis)
}

func TestExtractGoMethodReceiver(t *testing.T) {
	src := "func (s *Server) Handle() {}\n"
	syms := Extract(src, filter.LangGo)
	require.Len(t, syms, 1)
	assert.Equal(t, KindMethod, syms[0].Kind)
	assert.Equal(t, "Server", syms[0].Parent)
}

func TestExtractPythonClassAndMethod(t *testing.T) {
	src := "class Foo:\n    def bar(self):\n        pass\n\n    def _private(self):\n        pass\n"
	syms := Extract(src, filter.LangPython)
	require.Len(t, syms, 3)
	assert.Equal(t, "Foo", syms[0].Name)
	assert.Equal(t, KindClass, syms[0].Kind)
	assert.Equal(t, "bar", syms[1].Name)
	assert.Equal(t, "Foo", syms[1].Parent)
	assert.Equal(t, VisPrivate, syms[2].Vis)
}

func TestExtractTSJSArrowFunction(t *testing.T) {
	src := "export const handler = (req, res) => {\n  res.send('ok')\n}\n"
	syms := Extract(src, filter.LangTSJS)
	require.Len(t, syms, 1)
	assert.Equal(t, "handler", syms[0].Name)
	assert.Equal(t, VisPublic, syms[0].Vis)
}

func TestExtractCapsAt64Symbols(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		b.WriteString("func F")
		b.WriteString(itoaTest(i))
		b.WriteString("() {}\n")
	}
	syms := Extract(b.String(), filter.LangGo)
	assert.Len(t, syms, MaxSymbolsPerFile)
}

func TestExtractUnsupportedLanguageReturnsNil(t *testing.T) {
	syms := Extract("whatever", filter.LangShell)
	assert.Nil(t, syms)
}

func itoaTest(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
