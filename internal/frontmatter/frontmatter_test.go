package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---\n# Title\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hello\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, _, err := Split([]byte("---\ntitle: Hello\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, style, err := Split([]byte("---\r\ntitle: Hello\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("title: Hello\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\ntitle: Hello\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Hello\n"), fm)
	require.Empty(t, body)
}

func TestSplit_HorizontalRuleInBodyIsNotADelimiter(t *testing.T) {
	_, body, _, _, err := Split([]byte("---\ntitle: Hello\n---\nabove\n\n---\n\nbelow\n"))
	require.NoError(t, err)
	require.Equal(t, []byte("above\n\n---\n\nbelow\n"), body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\ntitle: Hello\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\ntitle: Hello\r\n---\r\n# Title\r\n"),
	}

	for _, input := range cases {
		fm, body, had, style, err := Split(input)
		require.NoError(t, err)
		require.Equal(t, input, Join(fm, body, had, style))
	}
}

func TestParseYAML_ValidYAML_ReturnsMap(t *testing.T) {
	fields, err := ParseYAML([]byte("title: Hello\nslug: hello-world\n"))
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, "hello-world", fields["slug"])
}

func TestParseYAML_Empty_ReturnsEmptyMap(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.NotNil(t, fields)
	require.Empty(t, fields)
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestParse_CombinesSplitAndDecode(t *testing.T) {
	fields, body, err := Parse([]byte("---\ntitle: A\ndescription: first\n---\nHello\n"))
	require.NoError(t, err)
	require.Equal(t, "A", fields["title"])
	require.Equal(t, "first", fields["description"])
	require.Equal(t, []byte("Hello\n"), body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	fields, body, err := Parse([]byte("Just text\n"))
	require.NoError(t, err)
	require.Empty(t, fields)
	require.Equal(t, []byte("Just text\n"), body)
}
