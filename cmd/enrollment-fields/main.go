package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/a3tai/mcp-enrollment-pdf/internal/form"
	"github.com/a3tai/mcp-enrollment-pdf/internal/insurer"
	"github.com/a3tai/mcp-enrollment-pdf/internal/pdf"
)

// Exit codes
const (
	exitOK         = 0
	exitError      = 1
	exitUnresolved = 2
)

// Report is the inventory of one template file.
type Report struct {
	File       string               `json:"file"`
	Descriptor string               `json:"descriptor,omitempty"`
	Pages      int                  `json:"pages"`
	Fields     []form.Field         `json:"fields"`
	Unresolved []insurer.Unresolved `json:"unresolved,omitempty"`
}

func main() {
	os.Exit(run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

func run(program string, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	format := flags.String("format", "text", "Output format: text, json")
	check := flags.String("check", "", "Descriptor id to check against the template, e.g. dak-familie")
	dir := flags.String("dir", "", "Check every known descriptor against its template in this directory")
	maxSize := flags.Int64("maxfilesize", pdf.DefaultMaxTemplateSize, "Maximum template file size in bytes")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Enrollment fields - list the form fields of a template and check the field mapping\n\n")
		fmt.Fprintf(stderr, "USAGE:\n")
		fmt.Fprintf(stderr, "  %s [options] <template.pdf>\n", program)
		fmt.Fprintf(stderr, "  %s [options] --dir <templates>\n\n", program)
		fmt.Fprintf(stderr, "OPTIONS:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExit status is %d when a mapping reference resolves to no field.\n", exitUnresolved)
	}
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", *format)
		return exitError
	}

	validator := pdf.NewValidator(*maxSize)
	catalog := insurer.Default()

	var reports []Report
	switch {
	case *dir != "":
		for _, d := range catalog.All() {
			r, err := inspect(validator, filepath.Join(*dir, d.Template), d)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %s: %v\n", d.ID, err)
				return exitError
			}
			reports = append(reports, *r)
		}
	case flags.NArg() == 1:
		var d *insurer.Descriptor
		if *check != "" {
			var ok bool
			if d, ok = catalog.Get(*check); !ok {
				fmt.Fprintf(stderr, "Error: unknown descriptor %q\n", *check)
				return exitError
			}
		}
		r, err := inspect(validator, flags.Arg(0), d)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		reports = append(reports, *r)
	default:
		flags.Usage()
		return exitError
	}

	if err := write(stdout, *format, reports); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitError
	}
	for _, r := range reports {
		if len(r.Unresolved) > 0 {
			return exitUnresolved
		}
	}
	return exitOK
}

func inspect(validator *pdf.Validator, path string, d *insurer.Descriptor) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateFileInfo(path, info); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(data); err != nil {
		return nil, err
	}

	doc, err := pdf.Open(data)
	if err != nil {
		return nil, err
	}

	r := &Report{File: path, Pages: doc.PageCount(), Fields: doc.Fields()}
	if d != nil {
		r.Descriptor = d.ID
		r.Unresolved = insurer.Check(d, r.Fields)
	}
	return r, nil
}

func write(w io.Writer, format string, reports []Report) error {
	if format == "json" {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	for _, r := range reports {
		fmt.Fprintf(w, "%s: %d pages, %d fields\n", r.File, r.Pages, len(r.Fields))
		for i, f := range r.Fields {
			fmt.Fprintf(w, "[%d] %s\n", i+1, f.Name)
			fmt.Fprintf(w, "    Type: %s\n", f.Kind)
			if len(f.Pages) > 0 {
				fmt.Fprintf(w, "    Pages: %v\n", f.Pages)
			}
			if len(f.Options) > 0 {
				fmt.Fprintf(w, "    Options: %v\n", f.Options)
			}
		}
		if r.Descriptor == "" {
			continue
		}
		if len(r.Unresolved) == 0 {
			fmt.Fprintf(w, "Descriptor %s: all references resolve\n", r.Descriptor)
			continue
		}
		fmt.Fprintf(w, "Descriptor %s: %d unresolved references\n", r.Descriptor, len(r.Unresolved))
		for _, u := range r.Unresolved {
			fmt.Fprintf(w, "    %s -> %s\n", u.Path, u.Want)
		}
	}
	return nil
}
