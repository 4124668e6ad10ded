// Package format prints robots.txt documents in canonical form.
package format

import (
	"bytes"
	"os"
	"strings"

	"github.com/kralicky/robotsls/pkg/syntax"
	"github.com/kralicky/robotsls/pkg/util"
)

// Format returns the canonical text of a parsed document:
//
//   - known directive names use their canonical spelling
//   - directives are written as "Name: value"
//   - comments start with "# "
//   - records are separated by a single blank line
//   - lines are unindented, end in "\n", and carry no trailing whitespace
//
// Lines with missing tokens are kept as written, apart from surrounding
// whitespace, so that formatting never loses text.
func Format(tree *syntax.Tree) []byte {
	text := tree.Snapshot.Text
	var buf bytes.Buffer
	buf.Grow(len(text))
	for _, tok := range tree.Root.Leading {
		buf.WriteString(tok.Value)
	}
	for i, record := range tree.Root.Records {
		if i > 0 {
			buf.WriteByte('\n')
		}
		for _, line := range record.Lines {
			writeLine(&buf, text, line)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, text []byte, line *syntax.LineNode) {
	if line.Kind() == syntax.KindCommentLine {
		buf.WriteString(formatComment(line.Comment.Value))
		return
	}
	if line.Name.Missing || line.Delimiter.Missing {
		span := line.Span()
		buf.Write(text[span.Start:span.End])
		return
	}
	name := line.Name.Value
	if info, ok := syntax.LookupDirective(name); ok {
		name = info.Name
	}
	buf.WriteString(name)
	buf.WriteByte(':')
	if value := line.ValueText(); value != "" {
		buf.WriteByte(' ')
		buf.WriteString(value)
	}
	if line.Comment != nil {
		buf.WriteByte(' ')
		buf.WriteString(formatComment(line.Comment.Value))
	}
}

func formatComment(comment string) string {
	body := strings.TrimSpace(strings.TrimPrefix(comment, "#"))
	if body == "" {
		return "#"
	}
	return "# " + body
}

// Source parses and formats src.
func Source(src []byte) []byte {
	return Format(syntax.Parse(syntax.Snapshot{Text: src}))
}

// FileInPlace formats filename, rewriting it only if its contents change.
func FileInPlace(filename string) (changed bool, err error) {
	info, err := os.Stat(filename)
	if err != nil {
		return false, err
	}
	original, err := os.ReadFile(filename)
	if err != nil {
		return false, err
	}
	formatted := Source(original)
	if bytes.Equal(original, formatted) {
		return false, nil
	}
	if err := util.OverwriteFile(filename, original, formatted, info.Mode().Perm(), info.Size()); err != nil {
		return false, err
	}
	return true, nil
}
