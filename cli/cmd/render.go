package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/raindoc/lang"
)

var (
	locationStyle = lipgloss.NewStyle().Bold(true)
	codeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	kindStyle     = lipgloss.NewStyle().Faint(true)
)

// report is the serialized form of a problem.
type report struct {
	Code    lang.Code     `json:"code"    yaml:"code"`
	Message string        `json:"message" yaml:"message"`
	Start   lang.Position `json:"start"   yaml:"start"`
	End     lang.Position `json:"end"     yaml:"end"`
	Offsets lang.Offsets  `json:"offsets" yaml:"offsets"`
}

func reports(text string, problems []lang.Problem) []report {
	out := make([]report, len(problems))

	for i, p := range problems {
		out[i] = report{
			Code:    p.Code,
			Message: p.Msg,
			Start:   lang.PositionAt(text, p.Position[0]),
			End:     lang.PositionAt(text, p.Position[1]),
			Offsets: p.Position,
		}
	}

	return out
}

// renderProblems writes each problem as "name:line:col: Code message"
// followed by the offending source line.
func renderProblems(w io.Writer, name, text string, problems []lang.Problem) error {
	for _, p := range problems {
		at := lang.PositionAt(text, p.Position[0])

		_, err := fmt.Fprintf(w, "%s %s %s\n%s",
			locationStyle.Render(name+":"+at.String()+":"),
			codeStyle.Render(p.Code.String()),
			p.Msg,
			lang.Snippet(text, p.Position),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(w io.Writer, v any, indent int) error {
	data, err := json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = fmt.Fprintf(w, "%s\n", data)

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	data, err := yaml.MarshalContext(ctx, v, yaml.Indent(indent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

// write encodes v in the named format.
func write(ctx context.Context, w io.Writer, format string, v any, indent int) error {
	if format == "json" {
		return writeJSON(w, v, indent)
	}

	return writeYAML(ctx, w, v, indent)
}
