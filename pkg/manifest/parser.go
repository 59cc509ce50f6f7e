package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/paths"
)

// Reasons reported by ParseError
const (
	ReasonMissingTerminator = "missing terminator"
	ReasonAbsolutePath      = "paths must not be absolute"
	ReasonMissingDelimiter  = "missing field delimiter"
	ReasonSpaceInTarget     = "link or target filename contains space"
	ReasonRelativeTarget    = "expected absolute path"
	ReasonNotNormalized     = "link path is not normalized"
)

// ParseOptions controls how manifest lines are interpreted
type ParseOptions struct {
	// AllowRelative accepts non-absolute link targets
	AllowRelative bool

	// UseMetadata treats every second line (the 2nd, 4th, ...) as opaque
	// metadata: copied to staging, never parsed
	UseMetadata bool
}

// ParseError describes a malformed manifest line. Line is 1-based and
// Content excludes the line terminator.
type ParseError struct {
	Line    int
	Content string
	Reason  string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d: '%s'", e.Reason, e.Line, e.Content)
}

// Parse reads a manifest from r into a new model. Every input line,
// parsed or not, is written verbatim to staging before it is validated.
// The first malformed line aborts parsing with a MANIFEST_PARSE error
// wrapping a *ParseError.
func Parse(r io.Reader, staging io.Writer, opts ParseOptions) (*Model, error) {
	logger := logging.GetLogger("manifest.parse")
	model := NewModel()
	br := bufio.NewReader(r)

	lineno := 0
	for {
		line, readErr := br.ReadString('\n')
		if line != "" {
			if _, err := io.WriteString(staging, line); err != nil {
				return nil, errors.Wrap(err, errors.ErrIO, "writing staged manifest")
			}

			lineno++
			if !opts.UseMetadata || lineno%2 != 0 {
				if err := parseLine(model, lineno, line, opts); err != nil {
					return nil, err
				}
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.Wrap(readErr, errors.ErrIO, "reading manifest")
		}
	}

	logger.Debug().
		Int("lines", lineno).
		Int("entries", model.Len()).
		Bool("metadata", opts.UseMetadata).
		Msg("Manifest parsed")

	return model, nil
}

func parseLine(model *Model, lineno int, line string, opts ParseOptions) error {
	body, terminated := strings.CutSuffix(line, "\n")
	if !terminated || body == "" {
		return newParseError(lineno, body, ReasonMissingTerminator)
	}
	if paths.IsAbsManifestPath(body) {
		return newParseError(lineno, body, ReasonAbsolutePath)
	}

	link, target, found := strings.Cut(body, " ")
	if !found {
		return newParseError(lineno, body, ReasonMissingDelimiter)
	}
	if strings.Contains(target, " ") {
		return newParseError(lineno, body, ReasonSpaceInTarget)
	}
	if !paths.IsNormalized(link) {
		return newParseError(lineno, body, ReasonNotNormalized)
	}
	if !opts.AllowRelative && target != "" && !paths.IsAbsTarget(target) {
		return newParseError(lineno, body, ReasonRelativeTarget)
	}

	// Last write wins for duplicate paths
	if target == "" {
		model.Set(link, Entry{Kind: EmptyFile})
	} else {
		model.Set(link, NewLink(target))
	}
	model.AddAncestors(link)
	return nil
}

func newParseError(lineno int, content, reason string) error {
	return errors.Wrap(&ParseError{Line: lineno, Content: content, Reason: reason},
		errors.ErrManifestParse, "invalid manifest").
		WithDetail("line", lineno)
}
