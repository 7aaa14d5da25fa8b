package formatter

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/logtools-dev/logtools/core"
)

// Built-in patterns. SimplePattern is the compact form for routine
// output; QualifiedPattern adds the severity and the source position.
const (
	SimplePattern = `{{.Program}}[{{.PID}}]: {{.Message}}` +
		`{{range .Fields}} {{.Key}}={{.Value}}{{end}}` +
		`{{with .Err}} error={{.}}{{end}}`

	QualifiedPattern = `{{.Program}}[{{.PID}}]: [{{.Level}}] {{.Message}}` +
		`{{range .Fields}} {{.Key}}={{.Value}}{{end}}` +
		`{{with .Err}} error={{.}}{{end}}` +
		` in {{.Caller.Function}}, line {{.Caller.Line}} (file {{.Caller.File}})`
)

// PatternView is the data a pattern template renders against.
type PatternView struct {
	Program string
	PID     int
	Host    string
	FQDN    string
	Time    time.Time
	Level   string
	Message string
	Caller  core.CallerInfo
	Err     error
	Fields  []PatternField
}

// PatternField is a field rendered to strings for template use.
type PatternField struct {
	Key   string
	Value string
}

// PatternFormatter renders entries through a text/template compiled
// once at construction. Templates have the sprig function set
// available.
type PatternFormatter struct {
	pattern string
	tmpl    *template.Template
}

// NewPatternFormatter compiles the given pattern. An empty or invalid
// pattern is a construction error; Format never fails on pattern
// syntax afterwards.
func NewPatternFormatter(pattern string) (*PatternFormatter, error) {
	if pattern == "" {
		return nil, fmt.Errorf("formatter: pattern must not be empty")
	}
	tmpl, err := template.New("pattern").Funcs(sprig.TxtFuncMap()).Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("formatter: parse pattern: %w", err)
	}
	return &PatternFormatter{pattern: pattern, tmpl: tmpl}, nil
}

// Pattern returns the source pattern the formatter was built from.
func (f *PatternFormatter) Pattern() string {
	return f.pattern
}

// Format renders the entry against the pattern template.
func (f *PatternFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := f.tmpl.Execute(buf, viewOf(entry)); err != nil {
		return nil, fmt.Errorf("formatter: execute pattern: %w", err)
	}
	buf.WriteByte('\n')

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatTo renders the entry and writes it directly to the writer.
func (f *PatternFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := f.tmpl.Execute(buf, viewOf(entry)); err != nil {
		return fmt.Errorf("formatter: execute pattern: %w", err)
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

func viewOf(entry *core.Entry) *PatternView {
	v := &PatternView{
		Program: core.Program(),
		PID:     core.PID(),
		Host:    core.Hostname(),
		FQDN:    core.FQDN(),
		Time:    entry.Time,
		Level:   entry.Level.String(),
		Message: entry.Message,
		Caller:  entry.Caller,
		Err:     entry.Err,
	}
	if len(entry.Fields) > 0 {
		v.Fields = make([]PatternField, len(entry.Fields))
		for i, f := range entry.Fields {
			v.Fields[i] = PatternField{Key: f.Key, Value: f.StringValue()}
		}
	}
	return v
}
