package syntax

type TokenKind uint8

const (
	TokenOther TokenKind = iota
	TokenComment
	TokenDelimiter
	TokenName
	TokenValue
)

func (k TokenKind) String() string {
	switch k {
	case TokenComment:
		return "Comment"
	case TokenDelimiter:
		return "Delimiter"
	case TokenName:
		return "Name"
	case TokenValue:
		return "Value"
	default:
		return "Other"
	}
}

// Token is the smallest lexical unit of a document.
type Token struct {
	Kind  TokenKind
	Value string
	Span  Span

	// Missing is set on zero-width placeholders synthesized by the parser
	// where a required token was absent from the source text.
	Missing bool
}

func newToken(kind TokenKind, text []byte, start, end int) *Token {
	return &Token{
		Kind:  kind,
		Value: string(text[start:end]),
		Span:  NewSpan(start, end),
	}
}

func missingToken(kind TokenKind, at int) *Token {
	return &Token{
		Kind:    kind,
		Span:    NewSpan(at, at),
		Missing: true,
	}
}
