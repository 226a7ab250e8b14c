// Package token defines the parsed markdown tree podium renders, and the
// goldmark adapter that produces it.
package token

import (
	"strconv"

	apperrors "github.com/odvcencio/podium/pkg/errors"
)

// Kind is the discriminant naming a token's markdown construct. It is an
// open string type: extensions may produce and handle kinds beyond the
// built-in set.
type Kind string

// Inline kinds.
const (
	KindText          Kind = "text"
	KindEmphasis      Kind = "emphasis"
	KindStrong        Kind = "strong"
	KindStrikethrough Kind = "strikethrough"
	KindCodespan      Kind = "codespan"
	KindLink          Kind = "link"
	KindImage         Kind = "image"
	KindLinebreak     Kind = "linebreak"
	KindSoftbreak     Kind = "softbreak"
	KindBlankLine     Kind = "blank_line"
	KindInlineHTML    Kind = "inline_html"
)

// Block kinds.
const (
	KindParagraph     Kind = "paragraph"
	KindHeading       Kind = "heading"
	KindThematicBreak Kind = "thematic_break"
	KindBlockText     Kind = "block_text"
	KindBlockCode     Kind = "block_code"
	KindBlockQuote    Kind = "block_quote"
	KindBlockHTML     Kind = "block_html"
	KindBlockError    Kind = "block_error"
	KindTable         Kind = "table"
	KindList          Kind = "list"
	KindListItem      Kind = "list_item"
)

// Align is a table column alignment.
type Align int

const (
	AlignNone Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// Attrs holds kind-specific metadata. Only the fields relevant to a
// token's kind are set.
type Attrs struct {
	// heading
	Level int

	// block_code: the full info string after the opening fence
	Info string

	// list: Start is the first item's declared number, which may be 0
	Ordered bool
	Start   int
	Bullet  string

	// link, image
	URL   string
	Title string
	Label string

	// table
	Header []string
	Aligns []Align
	Cells  [][]string
}

// Token is a node of the parsed markdown tree. Tokens are treated as
// immutable once produced.
type Token struct {
	Type     Kind
	Raw      string
	Children []*Token
	Attrs    Attrs
}

// New creates a token with children. Lists start counting at 1.
func New(kind Kind, children ...*Token) *Token {
	tok := &Token{Type: kind, Children: children}
	if kind == KindList {
		tok.Attrs.Start = 1
	}
	return tok
}

// Text creates a text token.
func Text(raw string) *Token {
	return &Token{Type: KindText, Raw: raw}
}

// selfContained lists composite-looking kinds that legitimately carry no
// children.
var selfContained = map[Kind]bool{
	KindThematicBreak: true,
	KindBlockCode:     true,
	KindBlockHTML:     true,
	KindBlockError:    true,
	KindTable:         true,
	KindText:          true,
	KindCodespan:      true,
	KindLinebreak:     true,
	KindSoftbreak:     true,
	KindBlankLine:     true,
	KindInlineHTML:    true,
}

// IsLeaf reports whether tokens of kind k carry their content in Raw or
// Attrs rather than in Children.
func IsLeaf(k Kind) bool {
	return selfContained[k]
}

// Validate checks, recursively, that inline effects and lists have
// children and that leaf kinds have none. Markdown allows empty headings,
// quotes and list items, so those are not checked, and neither are
// extension kinds.
func (t *Token) Validate() error {
	if t == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "nil token")
	}
	if t.Type == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "token has no kind")
	}
	if requiresChildren(t.Type) && len(t.Children) == 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput, "%s token has no children", t.Type).
			WithContext("kind", t.Type)
	}
	if IsLeaf(t.Type) && len(t.Children) > 0 {
		return apperrors.Newf(apperrors.ErrCodeInvalidInput, "%s token cannot have children", t.Type).
			WithContext("kind", t.Type)
	}
	for i, child := range t.Children {
		if err := child.Validate(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, string(t.Type)+" child "+strconv.Itoa(i))
		}
	}
	return nil
}

func requiresChildren(k Kind) bool {
	switch k {
	case KindEmphasis, KindStrong, KindStrikethrough, KindList:
		return true
	}
	return false
}

// PlainText concatenates the raw text of t and its descendants.
func (t *Token) PlainText() string {
	if t == nil {
		return ""
	}
	if len(t.Children) == 0 {
		return t.Raw
	}
	var out []byte
	for _, child := range t.Children {
		out = append(out, child.PlainText()...)
	}
	return string(out)
}
