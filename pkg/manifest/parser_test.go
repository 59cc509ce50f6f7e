package manifest

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string, opts ParseOptions) (*Model, string) {
	t.Helper()
	var staging strings.Builder
	m, err := Parse(strings.NewReader(input), &staging, opts)
	require.NoError(t, err)
	return m, staging.String()
}

func TestParseBasicConstruction(t *testing.T) {
	input := "pkg/out \n"
	m, staged := parse(t, input, ParseOptions{})

	assert.Equal(t, input, staged)
	assert.Equal(t, []string{"pkg", "pkg/out"}, m.Paths())

	dir, _ := m.Get("pkg")
	assert.Equal(t, Directory, dir.Kind)
	out, _ := m.Get("pkg/out")
	assert.Equal(t, EmptyFile, out.Kind)
}

func TestParseLinksAndAncestors(t *testing.T) {
	input := "ws/a/b/data.txt /src/data.txt\nws/a/lib.so /src/lib.so\n"
	m, staged := parse(t, input, ParseOptions{})

	assert.Equal(t, input, staged)
	assert.Equal(t, []string{"ws", "ws/a", "ws/a/b", "ws/a/b/data.txt", "ws/a/lib.so"}, m.Paths())

	data, _ := m.Get("ws/a/b/data.txt")
	assert.Equal(t, NewLink("/src/data.txt"), data)
}

func TestParseDuplicateLastWins(t *testing.T) {
	m, _ := parse(t, "a/x /first\na/x /second\na/y /t\na/y \n", ParseOptions{})

	x, _ := m.Get("a/x")
	assert.Equal(t, NewLink("/second"), x)
	y, _ := m.Get("a/y")
	assert.Equal(t, EmptyFile, y.Kind)
}

func TestParseAncestorCollisionIsSilent(t *testing.T) {
	// "a/b" is a link; a later child path must not turn it into a directory
	m, _ := parse(t, "a/b /target\na/b/c \n", ParseOptions{})

	b, _ := m.Get("a/b")
	assert.Equal(t, Link, b.Kind)
	assert.True(t, m.Has("a/b/c"))
}

func TestParseDeclaredEntryOverridesSynthesizedDirectory(t *testing.T) {
	m, _ := parse(t, "a/b/c \na /target\n", ParseOptions{})

	a, _ := m.Get("a")
	assert.Equal(t, NewLink("/target"), a)
}

func TestParseMetadataLines(t *testing.T) {
	input := "a/one /t1\nopaque metadata with spaces\na/two \n/also/metadata"
	m, staged := parse(t, input, ParseOptions{UseMetadata: true})

	assert.Equal(t, input, staged, "metadata lines are copied verbatim")
	assert.Equal(t, []string{"a", "a/one", "a/two"}, m.Paths())
}

func TestParseRelativeTargets(t *testing.T) {
	_, err := Parse(strings.NewReader("a rel/target\n"), &strings.Builder{}, ParseOptions{})
	require.Error(t, err)

	m, _ := parse(t, "a rel/target\n", ParseOptions{AllowRelative: true})
	a, _ := m.Get("a")
	assert.Equal(t, NewLink("rel/target"), a)
}

func TestParseWindowsTargetsAreAbsolute(t *testing.T) {
	m, _ := parse(t, "a C:\\tools\\bin.exe\nb C:/tools/lib.dll\n", ParseOptions{})

	a, _ := m.Get("a")
	assert.Equal(t, `C:\tools\bin.exe`, a.Target)
	b, _ := m.Get("b")
	assert.Equal(t, "C:/tools/lib.dll", b.Target)
}

func TestParseEmptyInput(t *testing.T) {
	m, staged := parse(t, "", ParseOptions{})
	assert.Zero(t, m.Len())
	assert.Empty(t, staged)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		opts       ParseOptions
		wantLine   int
		wantReason string
	}{
		{"missing terminator", "a /t\nb /t", ParseOptions{}, 2, ReasonMissingTerminator},
		{"bare newline", "a /t\n\n", ParseOptions{}, 2, ReasonMissingTerminator},
		{"absolute link path", "/etc/passwd /t\n", ParseOptions{}, 1, ReasonAbsolutePath},
		{"missing delimiter", "nodelimiter\n", ParseOptions{}, 1, ReasonMissingDelimiter},
		{"space in target", "a /t u\n", ParseOptions{}, 1, ReasonSpaceInTarget},
		{"relative target", "a t\n", ParseOptions{}, 1, ReasonRelativeTarget},
		{"dot dot segment", "a/../b /t\n", ParseOptions{}, 1, ReasonNotNormalized},
		{"empty link path", " /t\n", ParseOptions{}, 1, ReasonNotNormalized},
		{"metadata does not hide entries", "a /t\nmeta\nbad\n", ParseOptions{UseMetadata: true}, 3, ReasonMissingDelimiter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), &strings.Builder{}, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))

			var perr *ParseError
			require.True(t, stderrors.As(err, &perr))
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.Equal(t, tt.wantReason, perr.Reason)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse(strings.NewReader("a t\n"), &strings.Builder{}, ParseOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected absolute path at line 1: 'a t'")
}

func TestParseStagesLinesBeforeFailing(t *testing.T) {
	var staging strings.Builder
	_, err := Parse(strings.NewReader("ok /t\nbroken\nnever /t\n"), &staging, ParseOptions{})
	require.Error(t, err)
	assert.Equal(t, "ok /t\nbroken\n", staging.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, stderrors.New("disk full")
}

func TestParseStagingWriteFailure(t *testing.T) {
	_, err := Parse(strings.NewReader("a /t\n"), failingWriter{}, ParseOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}
