package token

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/unicode/norm"
)

// Parser wraps goldmark and converts its AST into Tokens.
type Parser struct {
	md goldmark.Markdown
}

// Option configures a Parser.
type Option func(*parserOptions)

type parserOptions struct {
	extensions []goldmark.Extender
}

// WithExtensions enables extra goldmark extensions on top of GFM. Nodes
// they introduce are converted to tokens named after the node kind.
func WithExtensions(ext ...goldmark.Extender) Option {
	return func(o *parserOptions) {
		o.extensions = append(o.extensions, ext...)
	}
}

// NewParser creates a markdown parser with GitHub Flavored Markdown
// (tables, strikethrough, autolinks, task lists) enabled.
func NewParser(opts ...Option) *Parser {
	var o parserOptions
	for _, opt := range opts {
		opt(&o)
	}

	md := goldmark.New(
		goldmark.WithExtensions(append([]goldmark.Extender{extension.GFM}, o.extensions...)...),
	)
	return &Parser{md: md}
}

// Parse parses markdown source into top-level block tokens. The source is
// NFC-normalized first so combining sequences measure as single cells.
func (p *Parser) Parse(source []byte) []*Token {
	source = norm.NFC.Bytes(source)
	root := p.md.Parser().Parse(text.NewReader(source))
	c := converter{source: source}
	return c.children(root)
}

// ParseString is a convenience method for parsing string input.
func (p *Parser) ParseString(source string) []*Token {
	return p.Parse([]byte(source))
}

type converter struct {
	source []byte
}

func (c *converter) children(n ast.Node) []*Token {
	var out []*Token
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.convert(child)...)
	}
	return out
}

func (c *converter) convert(node ast.Node) []*Token {
	switch n := node.(type) {
	case *ast.Paragraph:
		return one(KindParagraph, c.children(n))

	case *ast.TextBlock:
		return one(KindBlockText, c.children(n))

	case *ast.Heading:
		tok := New(KindHeading, c.children(n)...)
		tok.Attrs.Level = n.Level
		return []*Token{tok}

	case *ast.ThematicBreak:
		return []*Token{{Type: KindThematicBreak}}

	case *ast.FencedCodeBlock:
		tok := &Token{Type: KindBlockCode, Raw: c.lines(n)}
		if n.Info != nil {
			tok.Attrs.Info = strings.TrimSpace(string(n.Info.Segment.Value(c.source)))
		}
		return []*Token{tok}

	case *ast.CodeBlock:
		return []*Token{{Type: KindBlockCode, Raw: c.lines(n)}}

	case *ast.Blockquote:
		return one(KindBlockQuote, c.children(n))

	case *ast.List:
		tok := New(KindList, c.children(n)...)
		tok.Attrs.Ordered = n.IsOrdered()
		tok.Attrs.Bullet = string(n.Marker)
		if n.IsOrdered() {
			tok.Attrs.Start = n.Start
		}
		return []*Token{tok}

	case *ast.ListItem:
		return one(KindListItem, c.children(n))

	case *ast.HTMLBlock:
		raw := c.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(c.source))
		}
		return []*Token{{Type: KindBlockHTML, Raw: raw}}

	case *extast.Table:
		return []*Token{c.table(n)}

	case *ast.Text:
		out := []*Token{Text(string(n.Segment.Value(c.source)))}
		switch {
		case n.HardLineBreak():
			out = append(out, &Token{Type: KindLinebreak})
		case n.SoftLineBreak():
			out = append(out, &Token{Type: KindSoftbreak})
		}
		return out

	case *ast.String:
		return []*Token{Text(string(n.Value))}

	case *ast.Emphasis:
		kind := KindEmphasis
		if n.Level >= 2 {
			kind = KindStrong
		}
		return one(kind, c.children(n))

	case *extast.Strikethrough:
		return one(KindStrikethrough, c.children(n))

	case *ast.CodeSpan:
		return []*Token{{Type: KindCodespan, Raw: c.plain(n)}}

	case *ast.Link:
		tok := New(KindLink, c.children(n)...)
		tok.Attrs.URL = string(n.Destination)
		tok.Attrs.Title = string(n.Title)
		return []*Token{tok}

	case *ast.Image:
		tok := New(KindImage, c.children(n)...)
		tok.Attrs.URL = string(n.Destination)
		tok.Attrs.Title = string(n.Title)
		return []*Token{tok}

	case *ast.AutoLink:
		tok := New(KindLink, Text(string(n.Label(c.source))))
		tok.Attrs.URL = string(n.URL(c.source))
		return []*Token{tok}

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		return []*Token{{Type: KindInlineHTML, Raw: buf.String()}}

	case *extast.TaskCheckBox:
		if n.IsChecked {
			return []*Token{Text("[x] ")}
		}
		return []*Token{Text("[ ] ")}

	default:
		tok := New(Kind(snakeCase(node.Kind().String())), c.children(node)...)
		if node.Type() == ast.TypeBlock {
			tok.Raw = c.lines(node)
		}
		return []*Token{tok}
	}
}

func (c *converter) table(n *extast.Table) *Token {
	tok := &Token{Type: KindTable}
	for _, a := range n.Alignments {
		tok.Attrs.Aligns = append(tok.Attrs.Aligns, convertAlign(a))
	}

	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, c.plain(cell))
		}
		if _, ok := row.(*extast.TableHeader); ok {
			tok.Attrs.Header = cells
			continue
		}
		tok.Attrs.Cells = append(tok.Attrs.Cells, cells)
	}
	return tok
}

func convertAlign(a extast.Alignment) Align {
	switch a {
	case extast.AlignLeft:
		return AlignLeft
	case extast.AlignCenter:
		return AlignCenter
	case extast.AlignRight:
		return AlignRight
	default:
		return AlignNone
	}
}

// plain flattens a node's inline content to text. Line breaks become
// single spaces.
func (c *converter) plain(n ast.Node) string {
	var sb strings.Builder
	for _, tok := range c.children(n) {
		switch tok.Type {
		case KindSoftbreak, KindLinebreak:
			sb.WriteByte(' ')
		default:
			sb.WriteString(tok.PlainText())
		}
	}
	return sb.String()
}

func (c *converter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.source))
	}
	return buf.String()
}

func one(kind Kind, children []*Token) []*Token {
	return []*Token{New(kind, children...)}
}

// snakeCase converts a goldmark node kind name such as "FootnoteLink" or
// "HTMLBlock" to "footnote_link" / "html_block".
func snakeCase(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
