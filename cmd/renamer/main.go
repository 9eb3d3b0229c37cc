package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouaiSf/ai-file-renamer/internal/bootstrap"
	"github.com/LouaiSf/ai-file-renamer/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath   = flag.String("config", "", "path to YAML config file")
		preview      = flag.Bool("preview", false, "show planned renames without touching files")
		nonRecursive = flag.Bool("non-recursive", false, "process only the top level of the folder")
		reportPath   = flag.String("report", "", "write an xlsx report of the run to this path")
		verbose      = flag.Bool("verbose", false, "debug logging")
		listRuns     = flag.Int("list-runs", 0, "list the N most recent runs and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <folder>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, bootstrap.RunOptions{
		Preview:      *preview,
		NonRecursive: *nonRecursive,
		ReportPath:   *reportPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer app.Close()

	if *listRuns > 0 {
		return printRuns(ctx, app, *listRuns)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	run, err := app.UseCase.ProcessFolder(ctx, flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	mode := "renamed"
	if *preview {
		mode = "previewed"
	}
	fmt.Printf("%d files %s: %d succeeded, %d skipped, %d failed\n",
		run.Total, mode, run.Succeeded, run.Skipped, run.Failed)
	if run.Failed > 0 {
		return 1
	}
	return 0
}

func printRuns(ctx context.Context, app *bootstrap.App, limit int) int {
	if app.History == nil {
		fmt.Fprintln(os.Stderr, "run history is disabled in configuration")
		return 1
	}
	runs, err := app.History.ListRuns(ctx, limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  total=%d ok=%d skipped=%d failed=%d preview=%t\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.ID,
			r.Total, r.Succeeded, r.Skipped, r.Failed, r.Preview)
	}
	return 0
}
