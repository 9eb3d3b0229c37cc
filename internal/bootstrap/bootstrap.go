package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/LouaiSf/ai-file-renamer/internal/config"
	"github.com/LouaiSf/ai-file-renamer/internal/core/ports"
	"github.com/LouaiSf/ai-file-renamer/internal/core/usecase"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/classifier/rulebased"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/extractor"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/extractor/docx"
	pdfx "github.com/LouaiSf/ai-file-renamer/internal/infrastructure/extractor/pdf"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/extractor/plaintext"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/history/sqlite"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/journal"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/journal/jsonl"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/metadata"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/namegen/template"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/naming"
	renamefs "github.com/LouaiSf/ai-file-renamer/internal/infrastructure/renamer/localfs"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/report/xlsx"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/resilience"
	scanfs "github.com/LouaiSf/ai-file-renamer/internal/infrastructure/scanner/localfs"
	"github.com/LouaiSf/ai-file-renamer/internal/infrastructure/textnorm"
	"github.com/LouaiSf/ai-file-renamer/internal/observability/logging"
	"github.com/LouaiSf/ai-file-renamer/internal/observability/metrics"
)

// RunOptions are the per-invocation knobs from the command line, layered on
// top of the loaded configuration.
type RunOptions struct {
	Preview bool
	// NonRecursive turns the default subdirectory descent off for this
	// invocation, regardless of configuration.
	NonRecursive bool
	ReportPath   string
}

// App holds the wired pipeline and the resources that need closing.
type App struct {
	UseCase *usecase.RenameUseCase
	Logger  *slog.Logger
	History *sqlite.Store

	metricsSrv *http.Server
	sink       ports.OutcomeSink
}

// New wires every component from configuration. Unsupported classifier or
// generator types are configuration errors, not silent fallbacks.
func New(cfg config.Config, run RunOptions) (*App, error) {
	logger := logging.New(os.Stderr, cfg.Logging.Format, cfg.Logging.Level)

	classifier, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}
	exec := resilience.NewExecutor(resilience.DefaultPolicy(), logger)

	router := extractor.NewRouter().
		Register(".txt", plaintext.New()).
		Register(".pdf", pdfx.New()).
		Register(".docx", docx.New())

	sink, err := buildSink(cfg, run)
	if err != nil {
		return nil, err
	}

	app := &App{Logger: logger, sink: sink}

	var history ports.RunHistory
	if cfg.History.Enabled {
		store, err := sqlite.Open(cfg.History.Path)
		if err != nil {
			sink.Close()
			return nil, err
		}
		app.History = store
		history = store
	}

	pipelineMetrics := metrics.NewPipelineMetrics()
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", pipelineMetrics.Handler())
		app.metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			if err := app.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "error", err)
			}
		}()
	}

	app.UseCase = usecase.NewRenameUseCase(usecase.Deps{
		Scanner:    scanfs.New(cfg.SupportedExtensions, cfg.Scan.SkipHidden),
		Extractor:  router,
		Normalizer: textnorm.New(),
		Metadata:   metadata.New(),
		Classifier: resilience.WrapClassifier(classifier, exec, resilience.Never),
		Generator:  resilience.WrapGenerator(generator, exec, resilience.Never),
		Sanitizer:  naming.NewSanitizer(cfg.FilenameGenerator.MaxLength),
		Resolver:   naming.NewConflictResolver(),
		Renamer:    renamefs.New(),
		Sink:       sink,
		History:    history,
		Metrics:    pipelineMetrics,
		Logger:     logger,
	}, usecase.Options{
		Preview:      run.Preview,
		Recursive:    cfg.Scan.Recursive && !run.NonRecursive,
		Workers:      cfg.Pipeline.Workers,
		StageTimeout: cfg.StageTimeout(),
	})
	return app, nil
}

func buildClassifier(cfg config.Config) (ports.Classifier, error) {
	switch cfg.Classifier.Type {
	case "rule_based":
		return rulebased.New(nil), nil
	default:
		// ml, llm and zero_shot pass validation but have no bundled
		// implementation; they are plug-in points for external builds.
		return nil, fmt.Errorf("classifier type %q has no bundled implementation", cfg.Classifier.Type)
	}
}

func buildGenerator(cfg config.Config) (ports.NameGenerator, error) {
	switch cfg.FilenameGenerator.Type {
	case "template":
		return template.New(cfg.FilenameGenerator.Templates), nil
	default:
		return nil, fmt.Errorf("filename generator type %q has no bundled implementation", cfg.FilenameGenerator.Type)
	}
}

func buildSink(cfg config.Config, run RunOptions) (ports.OutcomeSink, error) {
	journalSink, err := jsonl.Open(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}
	reportPath := run.ReportPath
	if reportPath == "" {
		reportPath = cfg.Report.Path
	}
	if reportPath == "" {
		return journalSink, nil
	}
	return journal.NewTee(journalSink, xlsx.New(reportPath)), nil
}

// Close flushes sinks and shuts the optional servers down. Safe to call
// once after the batch finishes.
func (a *App) Close() error {
	var errs []error
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.metricsSrv != nil {
		_ = a.metricsSrv.Close()
	}
	return errors.Join(errs...)
}
