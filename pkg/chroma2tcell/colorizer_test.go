package chroma2tcell

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

func TestColorizeFile(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", ColorizeFile("a.yaml", "", DefaultStyle))
	})

	t.Run("yaml", func(t *testing.T) {
		s := ColorizeFile("config.yaml", "key: value", DefaultStyle)
		assert.Contains(t, s, "[#")
		assert.Contains(t, s, "key")
		assert.Contains(t, s, "value")
	})

	t.Run("unknown_type", func(t *testing.T) {
		assert.Equal(t, "a[b[]", ColorizeFile("payload.qqq", "a[b]", DefaultStyle))
	})

	t.Run("lexer_fails", func(t *testing.T) {
		old := matchLexer
		defer func() {
			matchLexer = old
		}()
		matchLexer = func(string) chroma.Lexer {
			return &mockLexer{err: fmt.Errorf("tokenise error")}
		}
		assert.Equal(t, "plain", ColorizeFile("x.go", "plain", DefaultStyle))
	})
}

func TestColorize(t *testing.T) {
	// Not parallel: subtests swap getStyle and getFallbackStyle
	t.Run("invalid_lexer", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("The code did not panic")
			}
		}()
		_, _ = Colorize("text", DefaultStyle, nil)
	})

	t.Run("with_lexer", func(t *testing.T) {
		s, err := Colorize("package main", DefaultStyle, lexers.Get("go"))
		assert.NoError(t, err)
		assert.Contains(t, s, "package")
	})

	t.Run("escapes_tags", func(t *testing.T) {
		lexer := &mockLexer{tokens: []chroma.Token{{Type: chroma.Text, Value: "[red]"}}}
		s, err := Colorize("[red]", DefaultStyle, lexer)
		assert.NoError(t, err)
		assert.Contains(t, s, "[red[]")
	})

	t.Run("getFallbackStyle", func(t *testing.T) {
		assert.Equal(t, styles.Fallback, getFallbackStyle())
	})

	t.Run("unknown_style", func(t *testing.T) {
		getStyleCalls, fallbackCalls := 0, 0
		oldGetStyle, oldGetFallbackStyle := getStyle, getFallbackStyle
		defer func() {
			getStyle, getFallbackStyle = oldGetStyle, oldGetFallbackStyle
		}()
		getStyle = func(string) *chroma.Style {
			getStyleCalls++
			return nil
		}
		getFallbackStyle = func() *chroma.Style {
			fallbackCalls++
			return styles.Fallback
		}
		s, err := Colorize("", "unknown_style", &mockLexer{})
		assert.NoError(t, err)
		assert.Equal(t, 1, getStyleCalls)
		assert.Equal(t, 1, fallbackCalls)
		assert.Equal(t, "", s)
	})

	t.Run("tokenise_error", func(t *testing.T) {
		_, err := Colorize("text", DefaultStyle, &mockLexer{err: fmt.Errorf("tokenise error")})
		assert.Error(t, err)
	})

	t.Run("no_colour", func(t *testing.T) {
		oldGetStyle := getStyle
		defer func() {
			getStyle = oldGetStyle
		}()
		getStyle = func(string) *chroma.Style {
			return &chroma.Style{Name: "zero"}
		}
		lexer := &mockLexer{tokens: []chroma.Token{{Type: chroma.TokenType(-1), Value: "plain text"}}}
		s, err := Colorize("plain text", "zero", lexer)
		assert.NoError(t, err)
		assert.Equal(t, "plain text", s)
	})
}

type mockLexer struct {
	tokens []chroma.Token
	err    error
}

func (m *mockLexer) Tokenise(_ *chroma.TokeniseOptions, _ string) (chroma.Iterator, error) {
	if m.err != nil {
		return nil, m.err
	}
	return chroma.Literator(m.tokens...), nil
}

func (m *mockLexer) Config() *chroma.Config { return &chroma.Config{Name: "mock"} }

func (m *mockLexer) SetRegistry(_ *chroma.LexerRegistry) chroma.Lexer { return m }

func (m *mockLexer) SetAnalyser(func(text string) float32) chroma.Lexer { return m }

func (m *mockLexer) AnalyseText(string) float32 { return 0 }
