package format_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kralicky/robotsls/pkg/format"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "canonical names and spacing",
			input: "user-AGENT:*\n  disallow :   /private   \nCRAWL-DELAY:5\n",
			want:  "User-agent: *\nDisallow: /private\nCrawl-delay: 5\n",
		},
		{
			name:  "records separated by one blank line",
			input: "User-agent: a\nAllow: /\n\n\n\nUser-agent: b\nDisallow: /\n\n\n",
			want:  "User-agent: a\nAllow: /\n\nUser-agent: b\nDisallow: /\n",
		},
		{
			name:  "comments",
			input: "#header\n#\nUser-agent: a   #   trailing  \n",
			want:  "# header\n#\nUser-agent: a # trailing\n",
		},
		{
			name:  "empty value",
			input: "User-agent: *\nDisallow:   \n",
			want:  "User-agent: *\nDisallow:\n",
		},
		{
			name:  "unknown directives keep their spelling",
			input: "X-Custom:  yes\n",
			want:  "X-Custom: yes\n",
		},
		{
			name:  "malformed lines are preserved",
			input: "  Disallow /private  \n: orphan\n",
			want:  "Disallow /private\n: orphan\n",
		},
		{
			name:  "crlf line endings",
			input: "User-agent: a\r\nDisallow: /\r\n\r\nSitemap: https://example.com/s.xml\r\n",
			want:  "User-agent: a\nDisallow: /\n\nSitemap: https://example.com/s.xml\n",
		},
		{
			name:  "missing final newline",
			input: "User-agent: a",
			want:  "User-agent: a\n",
		},
		{
			name:  "byte order mark",
			input: "\xEF\xBB\xBFUser-agent: a\n",
			want:  "\xEF\xBB\xBFUser-agent: a\n",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := format.Source([]byte(c.input))
			require.Equal(t, c.want, string(got))
			// formatting is idempotent
			require.Equal(t, c.want, string(format.Source(got)))
		})
	}
}

func TestFileInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robots.txt")
	require.NoError(t, os.WriteFile(path, []byte("user-agent:a\n\n\ndisallow:/\n"), 0o644))

	changed, err := format.FileInPlace(path)
	require.NoError(t, err)
	require.True(t, changed)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "User-agent: a\n\nDisallow: /\n", string(contents))

	changed, err = format.FileInPlace(path)
	require.NoError(t, err)
	require.False(t, changed)

	// no backups are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
