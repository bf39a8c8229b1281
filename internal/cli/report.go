package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/eventforge/asyncgen/internal/config"
	"github.com/eventforge/asyncgen/internal/generate"
	"github.com/eventforge/asyncgen/internal/validation"
	"github.com/fatih/color"
	json "github.com/goccy/go-json"
)

// report is the structured output of the analysis commands. Each command
// fills the sections it shows.
type report struct {
	Document  string                `json:"document"`
	Files     []string              `json:"files,omitempty"`
	Errors    []*validation.Message `json:"errors,omitempty"`
	Warnings  []*validation.Message `json:"warnings,omitempty"`
	Channels  []channelReport       `json:"channels,omitempty"`
	Types     []generate.NamedType  `json:"types,omitempty"`
	Waves     [][]string            `json:"waves,omitempty"`
	Recursive [][]string            `json:"recursive,omitempty"`
}

type channelReport struct {
	Name     string          `json:"name"`
	Topic    string          `json:"topic"`
	Producer bool            `json:"producer"`
	Consumer bool            `json:"consumer"`
	Messages []messageReport `json:"messages,omitempty"`
}

type messageReport struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	PayloadType string `json:"payloadType,omitempty"`
	Headers     bool   `json:"headers"`
	Key         bool   `json:"key"`
}

// newReport collects every section available in r.
func newReport(document string, r *generate.Result) *report {
	rep := &report{Document: document}
	if r == nil {
		return rep
	}
	if r.Document != nil {
		rep.Files = r.Document.Files
	}
	if r.Validation != nil {
		rep.Errors = r.Validation.Errors
		rep.Warnings = r.Validation.Warnings
	}
	for _, ch := range r.Channels {
		cr := channelReport{Name: ch.ChannelName, Topic: ch.Topic, Producer: ch.IsProducer, Consumer: ch.IsConsumer}
		for _, m := range ch.Messages {
			cr.Messages = append(cr.Messages, messageReport{
				Name:        m.Name,
				ContentType: m.ContentType,
				PayloadType: m.PayloadType,
				Headers:     m.Headers != nil,
				Key:         m.Key != nil,
			})
		}
		rep.Channels = append(rep.Channels, cr)
	}
	rep.Types = r.Types
	if r.Graph != nil {
		for _, w := range r.Graph.Waves() {
			rep.Waves = append(rep.Waves, w.Schemas)
		}
		rep.Recursive = r.Graph.Recursive()
	}
	return rep
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// writeStructured renders v in one of the machine-readable formats.
func writeStructured(w io.Writer, format config.OutputFormat, v any) error {
	switch format {
	case config.OutputFormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case config.OutputFormatDump:
		dumper.Fdump(w, v)
		return nil
	default:
		return fmt.Errorf("format %s is not structured", format)
	}
}

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
)

// printFindings writes validation errors then warnings.
func printFindings(w io.Writer, v *validation.Result) {
	if v == nil {
		return
	}
	for _, m := range v.Errors {
		fmt.Fprint(w, m.FormatFull())
	}
	for _, m := range v.Warnings {
		fmt.Fprint(w, m.FormatFull())
	}
}

func printSummary(w io.Writer, rep *report) {
	fmt.Fprintf(w, "%s %s (%s)\n", heading("Document:"), rep.Document, plural(len(rep.Files), "file"))

	if len(rep.Channels) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Channels:"))
	}
	for _, ch := range rep.Channels {
		fmt.Fprintf(w, "  %s  %s  %s\n", ch.Name, dim("topic "+ch.Topic), direction(ch))
		for _, m := range ch.Messages {
			payload := m.PayloadType
			if payload == "" {
				payload = "(none)"
			}
			fmt.Fprintf(w, "    %s -> %s", m.Name, payload)
			if m.ContentType != "" {
				fmt.Fprintf(w, "  %s", dim(m.ContentType))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n%s %s in %s\n", heading("Types:"), plural(len(rep.Types), "type"), plural(len(rep.Waves), "wave"))
	for _, set := range rep.Recursive {
		fmt.Fprintf(w, "  recursive: %s\n", strings.Join(set, " <-> "))
	}

	if len(rep.Warnings) > 0 {
		fmt.Fprintf(w, "\n%s\n", heading("Warnings:"))
		for _, m := range rep.Warnings {
			fmt.Fprint(w, m.FormatFull())
		}
	}
}

func direction(ch channelReport) string {
	switch {
	case ch.Producer && ch.Consumer:
		return "produce+consume"
	case ch.Producer:
		return "produce"
	case ch.Consumer:
		return "consume"
	}
	return ""
}

// printTypes writes each type with its fields, enum members or union
// members, in emission order.
func printTypes(w io.Writer, types []generate.NamedType) {
	for i, t := range types {
		if i > 0 {
			fmt.Fprintln(w)
		}
		line := fmt.Sprintf("%s %s %s", heading(t.Name), t.Kind, dim(fmt.Sprintf("(wave %d)", t.Wave)))
		if t.Recursive {
			line += " " + dim("recursive")
		}
		fmt.Fprintln(w, line)

		switch t.Kind {
		case generate.KindEnum:
			fmt.Fprintf(w, "  %s\n", strings.Join(t.Enum, ", "))
		case generate.KindUnion:
			fmt.Fprintf(w, "  %s\n", strings.Join(t.Members, " | "))
			if t.Discriminator != "" {
				fmt.Fprintf(w, "  discriminator: %s\n", t.Discriminator)
			}
		case generate.KindAlias:
			fmt.Fprintf(w, "  = %s\n", t.Alias.Name)
		case generate.KindObject:
			printFields(w, t.Fields)
		}
	}
}

func printFields(w io.Writer, fields []generate.Field) {
	nameWidth, typeWidth := 0, 0
	for _, f := range fields {
		nameWidth = max(nameWidth, len(f.Name))
		typeWidth = max(typeWidth, len(f.Type.Name))
	}
	for _, f := range fields {
		line := fmt.Sprintf("  %-*s  %-*s", nameWidth, f.Name, typeWidth, f.Type.Name)
		if f.Required {
			line += "  required"
		}
		if f.Default != "" {
			line += "  = " + f.Default
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
