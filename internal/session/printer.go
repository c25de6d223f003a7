package session

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/karupanerura/complex-calc/internal/expression"
)

// Printer writes results the way the interactive loop shows them.
type Printer struct {
	Out        io.Writer
	Err        io.Writer
	ShowTokens bool
	ShowTree   bool
	JSON       bool
	Color      bool
}

func (p *Printer) Print(r *Result) error {
	if p.JSON {
		return DumpJSON(p.Out, r, p.Color)
	}

	if p.ShowTokens && r.Tokens != nil {
		if _, err := fmt.Fprintf(p.Out, "Tokens:\n%s\n", r.Tokens); err != nil {
			return fmt.Errorf("fmt.Fprintf: %w", err)
		}
	}
	if r.Err != nil {
		return p.PrintError(r.Err)
	}
	if p.ShowTree {
		if _, err := fmt.Fprintf(p.Out, "Tree:\n%s\n", expression.Dump(r.Tree)); err != nil {
			return fmt.Errorf("fmt.Fprintf: %w", err)
		}
	}

	if _, err := io.WriteString(p.Out, "Simplified:\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	c := p.colorize(color.New(color.FgGreen, color.Bold))
	if _, err := c.Fprintln(p.Out, expression.Dump(r.Simplified)); err != nil {
		return fmt.Errorf("color.Fprintln: %w", err)
	}
	return nil
}

func (p *Printer) PrintError(err error) error {
	c := p.colorize(color.New(color.FgRed))
	if _, werr := c.Fprintln(p.Err, err.Error()); werr != nil {
		return fmt.Errorf("color.Fprintln: %w", werr)
	}
	return nil
}

func (p *Printer) colorize(c *color.Color) *color.Color {
	if p.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func DumpJSON(w io.Writer, v any, colorize bool) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if colorize {
		opts = append(opts, json.Colorize(json.DefaultColorScheme))
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
