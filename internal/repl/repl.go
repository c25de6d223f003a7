package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/karupanerura/complex-calc/internal/session"
	"github.com/peterh/liner"
)

// LineReader reads one line per call. It returns io.EOF when input ends.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type REPL struct {
	Reader      LineReader
	Evaluator   *session.Evaluator
	Printer     *session.Printer
	Prompt      string
	ExitCommand string
	// OnAccept is called with every line that was evaluated.
	OnAccept func(line string)
}

// Run reads and evaluates lines until the exit command, EOF or ctx is done.
// Errors in an expression are reported and never stop the loop.
func (r *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.readLine(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		} else if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == r.ExitCommand {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		result := r.Evaluator.Evaluate(line)
		if err := r.Printer.Print(result); err != nil {
			return fmt.Errorf("print result: %w", err)
		}
		if r.OnAccept != nil {
			r.OnAccept(line)
		}
	}
}

type readResult struct {
	line string
	err  error
}

// readLine gives up on a blocked read once ctx is done. The abandoned read
// finishes in the background and its line is dropped.
func (r *REPL) readLine(ctx context.Context) (string, error) {
	ch := make(chan readResult, 1)
	go func() {
		line, err := r.Reader.Prompt(r.Prompt)
		ch <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.line, res.err
	}
}

// MaxLineSize is the longest line ScannerReader accepts.
const MaxLineSize = 1 << 20

// ScannerReader reads lines without echoing a prompt, for piped input.
type ScannerReader struct {
	scanner *bufio.Scanner
}

func NewScannerReader(r io.Reader) *ScannerReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	return &ScannerReader{scanner: scanner}
}

func (s *ScannerReader) Prompt(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Liner wraps a line editor with history persisted to a file.
type Liner struct {
	*liner.State
	historyFile string
}

func NewLiner(historyFile string) *Liner {
	l := &Liner{State: liner.NewLiner(), historyFile: historyFile}
	l.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = l.ReadHistory(f)
			_ = f.Close()
		}
	}
	return l
}

func (l *Liner) Close() error {
	if l.historyFile != "" {
		if f, err := os.Create(l.historyFile); err == nil {
			_, _ = l.WriteHistory(f)
			_ = f.Close()
		}
	}
	return l.State.Close()
}
