package report

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
)

// Diagnostic formats a fatal error the way the command line reports it:
// the program, its arguments, the error chain and the OS errno when the
// failure came from a system call.
func Diagnostic(program string, args []string, err error) string {
	var b strings.Builder
	b.WriteString(program)
	if len(args) > 0 {
		fmt.Fprintf(&b, " (args %s)", strings.Join(args, " "))
	}
	b.WriteString(": ")
	b.WriteString(err.Error())
	if errno, ok := errors.Errno(err); ok {
		fmt.Fprintf(&b, " (errno %d)", int(errno))
	}
	return b.String()
}

// RenderError writes the diagnostic for err as a single styled line
func (r *Renderer) RenderError(program string, args []string, err error) {
	fmt.Fprintln(r.writer, r.styles.Render("Error", Diagnostic(program, args, err)))
}
