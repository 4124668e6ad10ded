package syntax

import "bytes"

var byteOrderMark = []byte("\xEF\xBB\xBF")

// Parse builds the syntax tree for a snapshot. It never fails: malformed
// lines produce missing tokens instead of errors.
func Parse(snapshot Snapshot) *Tree {
	p := parser{text: snapshot.Text}
	return &Tree{
		Root:     p.parseDocument(),
		Snapshot: snapshot,
	}
}

var _ ParseFunc = Parse

type parser struct {
	text []byte

	pending []*LineNode
	records []*RecordNode
}

func (p *parser) parseDocument() *DocumentNode {
	doc := &DocumentNode{
		span: NewSpan(0, len(p.text)),
	}
	pos := 0
	if bytes.HasPrefix(p.text, byteOrderMark) {
		doc.Leading = append(doc.Leading, newToken(TokenOther, p.text, 0, len(byteOrderMark)))
		pos = len(byteOrderMark)
	}
	for pos < len(p.text) {
		end, next := p.lineBounds(pos)
		if line := p.parseLine(pos, end); line != nil {
			p.pending = append(p.pending, line)
		} else {
			p.flushRecord()
		}
		pos = next
	}
	p.flushRecord()
	doc.Records = p.records
	return doc
}

// lineBounds returns the end of the line content starting at pos and the
// start of the following line.
func (p *parser) lineBounds(pos int) (end, next int) {
	i := bytes.IndexAny(p.text[pos:], "\r\n")
	if i < 0 {
		return len(p.text), len(p.text)
	}
	end = pos + i
	next = end + 1
	if p.text[end] == '\r' && next < len(p.text) && p.text[next] == '\n' {
		next++
	}
	return end, next
}

func (p *parser) flushRecord() {
	if len(p.pending) == 0 {
		return
	}
	lines := p.pending
	p.pending = nil

	first, last := lines[0], lines[len(lines)-1]
	record := &RecordNode{
		Lines: lines,
		span:  NewSpan(first.span.Start, last.span.End),
	}
	for _, l := range lines {
		if l.kind != KindCommentLine {
			record.NameToken = l.Name
			break
		}
	}
	if record.NameToken == nil {
		record.NameToken = missingToken(TokenName, record.span.Start)
	}
	p.records = append(p.records, record)
}

// parseLine parses the line content in [start, end). It returns nil for a
// blank line.
func (p *parser) parseLine(start, end int) *LineNode {
	i := p.skipSpace(start, end)
	contentEnd := end
	var comment *Token
	if c := bytes.IndexByte(p.text[i:end], '#'); c >= 0 {
		contentEnd = i + c
		comment = newToken(TokenComment, p.text, contentEnd, p.trimSpace(contentEnd, end))
	}

	if i == contentEnd {
		if comment == nil {
			return nil
		}
		return &LineNode{
			Comment: comment,
			kind:    KindCommentLine,
			span:    comment.Span,
		}
	}

	line := &LineNode{Comment: comment}
	colon := bytes.IndexByte(p.text[i:contentEnd], ':')
	if colon < 0 {
		nameEnd := p.trimSpace(i, contentEnd)
		line.Name = newToken(TokenName, p.text, i, nameEnd)
		line.Delimiter = missingToken(TokenDelimiter, nameEnd)
		line.Value = missingToken(TokenValue, nameEnd)
	} else {
		colon += i
		if nameEnd := p.trimSpace(i, colon); nameEnd > i {
			line.Name = newToken(TokenName, p.text, i, nameEnd)
		} else {
			line.Name = missingToken(TokenName, i)
		}
		line.Delimiter = newToken(TokenDelimiter, p.text, colon, colon+1)
		valueStart := p.skipSpace(colon+1, contentEnd)
		if valueEnd := p.trimSpace(valueStart, contentEnd); valueEnd > valueStart {
			line.Value = newToken(TokenValue, p.text, valueStart, valueEnd)
		}
	}

	if line.Name.Missing {
		line.kind = KindExtension
	} else {
		line.kind = directiveKind(line.Name.Value)
	}
	lineEnd := line.Name.Span.End
	for _, t := range line.Tokens() {
		lineEnd = max(lineEnd, t.Span.End)
	}
	line.span = NewSpan(i, lineEnd)
	return line
}

func (p *parser) skipSpace(start, end int) int {
	for start < end && isSpace(p.text[start]) {
		start++
	}
	return start
}

func (p *parser) trimSpace(start, end int) int {
	for end > start && isSpace(p.text[end-1]) {
		end--
	}
	return end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}
