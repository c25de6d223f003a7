package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/karupanerura/complex-calc/internal/session"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

type Entry struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// UnmarshalJSON also accepts a bare string as an unnamed entry.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*e = Entry{Expression: s}
		return nil
	}

	type entry Entry
	var v entry
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*e = Entry(v)
	return nil
}

type fileDef struct {
	Expressions []Entry `json:"expressions"`
}

func Load(filePath string) ([]Entry, error) {
	var parseFile func(io.Reader) ([]Entry, error)
	switch filepath.Ext(filePath) {
	case ".json":
		parseFile = ParseJSON
	case ".yaml", ".yml":
		parseFile = ParseYAML
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", filePath, err)
	}
	defer f.Close()

	entries, err := parseFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return entries, nil
}

func ParseYAML(r io.Reader) ([]Entry, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseJSON(bytes.NewReader(jsonBytes))
}

// ParseJSON reads either {"expressions": [...]} or a bare list.
func ParseJSON(r io.Reader) ([]Entry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	var entries []Entry
	if trimmed := bytes.TrimSpace(b); len(trimmed) != 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
	} else {
		var def fileDef
		if err := json.Unmarshal(b, &def); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}
		entries = def.Expressions
	}

	for i := range entries {
		if entries[i].Name == "" {
			entries[i].Name = fmt.Sprintf("#%d", i+1)
		}
	}
	return entries, nil
}

type Item struct {
	Name   string          `json:"name"`
	Result *session.Result `json:"result"`
}

type Report struct {
	Items  []Item `json:"items"`
	Failed int    `json:"failed"`
}

// Run evaluates entries concurrently. Items keep the order of entries.
func Run(ctx context.Context, ev *session.Evaluator, entries []Entry, concurrency int) (*Report, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*session.Result, len(entries))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, entry := range entries {
		i, entry := i, entry
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ev.Evaluate(entry.Expression)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	items := lo.Map(entries, func(entry Entry, i int) Item {
		return Item{Name: entry.Name, Result: results[i]}
	})
	return &Report{
		Items: items,
		Failed: lo.CountBy(results, func(r *session.Result) bool {
			return r.Failed()
		}),
	}, nil
}

// WriteText writes one tab separated line per item: name, source and either
// the reduced value or the error.
func (r *Report) WriteText(w io.Writer) error {
	for _, item := range r.Items {
		outcome := ""
		if item.Result.Failed() {
			outcome = item.Result.Err.Error()
		} else if v, ok := item.Result.Value(); ok {
			outcome = v.String()
		} else {
			outcome = item.Result.Simplified.String()
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", item.Name, item.Result.Source, outcome); err != nil {
			return fmt.Errorf("fmt.Fprintf: %w", err)
		}
	}
	return nil
}
