package repl_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/complex-calc/internal/repl"
	"github.com/karupanerura/complex-calc/internal/session"
)

type lines struct {
	lines   []string
	prompts []string
}

func (l *lines) Prompt(prompt string) (string, error) {
	l.prompts = append(l.prompts, prompt)
	if len(l.lines) == 0 {
		return "", io.EOF
	}
	line := l.lines[0]
	l.lines = l.lines[1:]
	return line, nil
}

func newREPL(reader repl.LineReader, out, errOut *bytes.Buffer) *repl.REPL {
	return &repl.REPL{
		Reader:      reader,
		Evaluator:   &session.Evaluator{},
		Printer:     &session.Printer{Out: out, Err: errOut},
		Prompt:      ">> ",
		ExitCommand: "exit",
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	reader := &lines{lines: []string{"1+1\r\n", "", "1 2", "x", "(2+3)*4", "exit", "3"}}
	r := newREPL(reader, &out, &errOut)

	var accepted []string
	r.OnAccept = func(line string) {
		accepted = append(accepted, line)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(out.String(), "Simplified:\n"); got != 2 {
		t.Errorf("expect 2 results but got %d:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "SingleValue(2)\n") || !strings.Contains(out.String(), "SingleValue(20)\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if got := strings.Count(errOut.String(), "\n"); got != 2 {
		t.Errorf("expect 2 errors but got:\n%s", errOut.String())
	}
	if diff := cmp.Diff([]string{"1+1", "1 2", "x", "(2+3)*4"}, accepted); diff != "" {
		t.Errorf("unexpected accepted lines (-want +got):\n%s", diff)
	}
	if len(reader.lines) != 1 {
		t.Errorf("should stop at exit, remaining: %v", reader.lines)
	}
	if reader.prompts[0] != ">> " {
		t.Errorf("unexpected prompt: %q", reader.prompts[0])
	}
}

func TestRunStopsAtEOF(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	r := newREPL(repl.NewScannerReader(strings.NewReader("6/2\n5/0\n")), &out, &errOut)
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "SingleValue(3)\n") || !strings.Contains(out.String(), "SingleValue(undefined)\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

type failingReader struct{}

func (failingReader) Prompt(string) (string, error) {
	return "", errors.New("broken terminal")
}

func TestRunReadError(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if err := newREPL(failingReader{}, &out, &errOut).Run(context.Background()); err == nil {
		t.Error("should be error")
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	r := newREPL(&lines{lines: []string{"1"}}, &out, &errOut)
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expect context.Canceled but got %v", err)
	}
}

type blockingReader struct {
	release chan struct{}
}

func (b *blockingReader) Prompt(string) (string, error) {
	<-b.release
	return "", io.EOF
}

func TestRunCanceledWhileReading(t *testing.T) {
	t.Parallel()

	reader := &blockingReader{release: make(chan struct{})}
	t.Cleanup(func() { close(reader.release) })

	ctx, cancel := context.WithCancel(context.Background())
	var out, errOut bytes.Buffer
	r := newREPL(reader, &out, &errOut)

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expect context.Canceled but got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run should return once the context is canceled")
	}
}

func TestRunLongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("1+", 50000) + "1"
	input := long + "\n" + strings.Repeat("9", 100000) + "\n2*3\n"

	var out, errOut bytes.Buffer
	r := newREPL(repl.NewScannerReader(strings.NewReader(input)), &out, &errOut)
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "SingleValue(50001)\n") || !strings.Contains(out.String(), "SingleValue(6)\n") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "number literal out of range") {
		t.Errorf("unexpected error output: %q", errOut.String())
	}
}
