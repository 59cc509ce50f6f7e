package report

import (
	"embed"
	"fmt"
	"io"
	"text/template"

	"github.com/arthur-debert/build-runfiles/pkg/errors"
	"github.com/arthur-debert/build-runfiles/pkg/logging"
	"github.com/arthur-debert/build-runfiles/pkg/runfiles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer writes run reports to one writer
type Renderer struct {
	writer    io.Writer
	templates *template.Template
	styles    Styles
}

// NewRenderer creates a renderer for w. With noColor every style is
// dropped and the text format is plain.
func NewRenderer(w io.Writer, noColor bool) (*Renderer, error) {
	log := logging.GetLogger("report")

	lg := lipgloss.NewRenderer(w)
	if noColor {
		lg.SetColorProfile(termenv.Ascii)
	}
	log.Debug().
		Bool("noColor", noColor).
		Str("colorProfile", fmt.Sprintf("%v", lg.ColorProfile())).
		Msg("Creating report renderer")

	cfg, err := ParseStyles(defaultStyles)
	if err != nil {
		return nil, err
	}
	styles, err := cfg.Build(lg)
	if err != nil {
		return nil, err
	}

	r := &Renderer{writer: w, styles: styles}
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"style":   styles.Render,
		"summary": r.summary,
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.templates = tmpl
	return r, nil
}

// Render writes rep in the given format. FormatNone writes nothing.
func (r *Renderer) Render(rep *runfiles.Report, format Format) error {
	switch format {
	case FormatNone:
		return nil
	case FormatText:
		if err := r.templates.ExecuteTemplate(r.writer, "report.tmpl", rep); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to execute report template")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.writer)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode report as yaml")
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(r.writer).Encode(rep); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to encode report as toml")
		}
		return nil
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown report format %s", format)
	}
}

func (r *Renderer) summary(rep *runfiles.Report) string {
	line := fmt.Sprintf("%d pruned, %d created", len(rep.Pruned), len(rep.Created))
	if len(rep.Trashed) > 0 {
		line += fmt.Sprintf(", %d trashed", len(rep.Trashed))
	}
	switch {
	case rep.DryRun:
		return r.styles.Render("Muted", line+", nothing changed")
	case rep.Committed:
		return r.styles.Render("Created", line+", manifest committed")
	default:
		return r.styles.Render("Pruned", line+", manifest not committed")
	}
}
