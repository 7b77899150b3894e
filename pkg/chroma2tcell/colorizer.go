// Package chroma2tcell turns chroma token streams into tview color tags.
package chroma2tcell

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/rivo/tview"
)

// DefaultStyle is the chroma style of the text viewer.
const DefaultStyle = "dracula"

var getStyle = styles.Get

var getFallbackStyle = func() *chroma.Style {
	return styles.Fallback
}

var matchLexer = lexers.Match

// Colorize wraps every styled token of text in a [#rrggbb] tag. Token
// values are escaped so file content never reads as a tag.
func Colorize(text, styleName string, lexer chroma.Lexer) (string, error) {
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", err
	}

	style := getStyle(styleName)
	if style == nil {
		style = getFallbackStyle()
	}

	var sb strings.Builder
	for _, token := range iterator.Tokens() {
		value := tview.Escape(token.Value)
		color := style.Get(token.Type)
		if !color.Colour.IsSet() {
			sb.WriteString(value)
			continue
		}
		sb.WriteString("[" + color.Colour.String() + "]")
		sb.WriteString(value)
		sb.WriteString("[-]")
	}

	return sb.String(), nil
}

// ColorizeFile picks a lexer by the file name. Text of unknown types, or
// text the lexer fails on, comes back escaped and uncolored.
func ColorizeFile(name, text, styleName string) string {
	lexer := matchLexer(name)
	if lexer == nil {
		return tview.Escape(text)
	}
	s, err := Colorize(text, styleName, chroma.Coalesce(lexer))
	if err != nil {
		return tview.Escape(text)
	}
	return s
}
