package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/complex-calc/internal/batch"
	"github.com/karupanerura/complex-calc/internal/config"
	"github.com/karupanerura/complex-calc/internal/repl"
	"github.com/karupanerura/complex-calc/internal/server"
	"github.com/karupanerura/complex-calc/internal/session"
	"github.com/mattn/go-isatty"
)

type Option struct {
	Exprs       []string `short:"e" long:"expr" description:"[OPTIONAL] Evaluate an expression and exit (repeatable)" required:"false"`
	File        string   `short:"f" long:"file" description:"[OPTIONAL] Evaluate every expression in a YAML/JSON file" required:"false"`
	Listen      string   `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve the evaluation API" required:"false"`
	Config      string   `short:"c" long:"config" description:"[OPTIONAL] Config file (YAML/JSON)" required:"false"`
	JSON        bool     `long:"json" description:"[OPTIONAL] Print results as JSON"`
	Debug       bool     `long:"debug" description:"[OPTIONAL] Dump tokens and trees while parsing"`
	Concurrency int      `long:"concurrency" description:"[OPTIONAL] Number of expressions evaluated at once in file mode" default:"4"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	_, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(os.Stdout)
			return 1
		}
	}
	if countModes(opt) > 1 {
		parser.WriteHelp(os.Stdout)
		return 1
	}

	cfg := config.Default()
	if opt.Config != "" {
		cfg, err = config.Load(opt.Config)
		if err != nil {
			log.Printf("failed to load config: %v", err)
			return 1
		}
	}

	ev := &session.Evaluator{Debug: opt.Debug}
	printer := &session.Printer{
		Out:        os.Stdout,
		Err:        os.Stderr,
		ShowTokens: cfg.ShowTokens,
		ShowTree:   cfg.ShowTree,
		JSON:       opt.JSON,
		Color:      cfg.UseColor(isatty.IsTerminal(os.Stdout.Fd())),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opt.Listen != "":
		return serve(ctx, opt.Listen, ev)
	case opt.File != "":
		return evaluateFile(ctx, opt, ev, printer)
	case len(opt.Exprs) != 0:
		return evaluateExprs(opt.Exprs, ev, printer)
	default:
		return interact(ctx, cfg, ev, printer)
	}
}

func countModes(opt Option) (n int) {
	for _, set := range []bool{opt.Listen != "", opt.File != "", len(opt.Exprs) != 0} {
		if set {
			n++
		}
	}
	return n
}

func serve(ctx context.Context, listen string, ev *session.Evaluator) int {
	srv := server.New(ev)
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Printf("failed to shutdown server: %v", err)
		}
	}()

	if err := srv.Listen(listen); err != nil {
		log.Printf("failed to serve: %v", err)
		return 1
	}
	return 0
}

func evaluateFile(ctx context.Context, opt Option, ev *session.Evaluator, printer *session.Printer) int {
	entries, err := batch.Load(opt.File)
	if err != nil {
		log.Printf("failed to load expressions: %v", err)
		return 1
	}

	report, err := batch.Run(ctx, ev, entries, opt.Concurrency)
	if err != nil {
		log.Printf("failed to evaluate expressions: %v", err)
		return 1
	}

	if opt.JSON {
		err = session.DumpJSON(os.Stdout, report, printer.Color)
	} else {
		err = report.WriteText(os.Stdout)
	}
	if err != nil {
		log.Printf("failed to dump report: %v", err)
		return 1
	}
	if report.Failed != 0 {
		return 1
	}
	return 0
}

func evaluateExprs(exprs []string, ev *session.Evaluator, printer *session.Printer) int {
	code := 0
	for _, expr := range exprs {
		result := ev.Evaluate(expr)
		if err := printer.Print(result); err != nil {
			log.Printf("failed to print result: %v", err)
			return 1
		}
		if result.Failed() {
			code = 1
		}
	}
	return code
}

func interact(ctx context.Context, cfg *config.Config, ev *session.Evaluator, printer *session.Printer) int {
	r := &repl.REPL{
		Evaluator:   ev,
		Printer:     printer,
		Prompt:      cfg.Prompt,
		ExitCommand: cfg.ExitCommand,
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		ln := repl.NewLiner(cfg.HistoryFile)
		defer ln.Close()
		r.Reader = ln
		r.OnAccept = ln.AppendHistory
	} else {
		r.Reader = repl.NewScannerReader(os.Stdin)
	}

	if err := r.Run(ctx); errors.Is(err, context.Canceled) {
		return 0
	} else if err != nil {
		log.Printf("failed to read input: %v", err)
		return 1
	}
	return 0
}
