package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/nao1215/wikistats/internal/config"
	"github.com/nao1215/wikistats/internal/model"
	"github.com/nao1215/wikistats/internal/pageviews"
	"github.com/nao1215/wikistats/internal/report"
	"github.com/nao1215/wikistats/internal/stats"
	"github.com/nao1215/wikistats/internal/target"
	"github.com/nao1215/wikistats/internal/wiki"
)

// ErrTargetsFailed is returned when at least one target could not be
// collected and the run continued past it.
var ErrTargetsFailed = errors.New("targets failed")

// runner executes the selected modes of one invocation.
type runner struct {
	cfg     *config.Config
	content wiki.ContentService
	// views is nil when no date range is configured.
	views  stats.ViewCounter
	stdout io.Writer
	logger *slog.Logger
}

// newRunner wires the production content and analytics services.
func newRunner(cfg *config.Config, stdout io.Writer, logger *slog.Logger) (*runner, error) {
	content := wiki.NewClient(
		wiki.WithEndpoint(func(site model.Site) string {
			return cfg.APIURL(cfg.ResolveSite(site))
		}),
		wiki.WithUserAgent(cfg.UserAgent),
		wiki.WithTimeout(cfg.Timeout),
		wiki.WithLogger(logger),
	)

	r := &runner{
		cfg:     cfg,
		content: content,
		stdout:  stdout,
		logger:  logger,
	}

	dateRange, err := cfg.DateRange()
	if err != nil {
		return nil, err
	}
	if dateRange != nil {
		source := pageviews.NewRESTSource(
			pageviews.WithEndpoint(cfg.PageviewsEndpoint),
			pageviews.WithUserAgent(cfg.UserAgent),
			pageviews.WithAccessToken(cfg.AccessToken),
			pageviews.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			pageviews.WithLogger(logger),
		)
		r.views = pageviews.NewAggregator(source, pageviews.WithAggregatorLogger(logger))
	}
	return r, nil
}

// run executes the diagnostic and every selected mode in order, writing
// to the configured output.
// A failed target is logged and skipped unless FailFast is set; the run
// then returns ErrTargetsFailed with the number of failures. A category
// name that is not a category stops the run.
func (r *runner) run(ctx context.Context) error {
	output, closeOutput, err := r.openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	if r.cfg.TestArticle != "" {
		if err := r.listRevisions(ctx, output, r.cfg.TestArticle); err != nil {
			return err
		}
	}

	modes := r.cfg.Modes()
	if len(modes) == 0 {
		return nil
	}

	dateRange, err := r.cfg.DateRange()
	if err != nil {
		return err
	}

	collectorOpts := []stats.Option{stats.WithLogger(r.logger)}
	if r.views != nil {
		collectorOpts = append(collectorOpts, stats.WithViewCounter(r.views))
	}
	collector := stats.NewCollector(r.content, collectorOpts...)

	format, err := report.ParseFormat(r.cfg.Format)
	if err != nil {
		return err
	}

	var failed int
	for _, name := range modes {
		mode := r.newMode(name)
		n, err := r.runMode(ctx, mode, collector, dateRange, format, output)
		failed += n
		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d %w", failed, ErrTargetsFailed)
	}
	return nil
}

// newMode builds the target mode for name.
func (r *runner) newMode(name string) target.Mode {
	opt := target.WithLogger(r.logger)
	switch name {
	case target.ModeCategory:
		return target.NewCategory(r.content, r.cfg.ContentSite(), r.cfg.Category, opt)
	case target.ModeLanguages:
		return target.NewCrossLanguage(r.content, r.cfg.HomeSite(), r.cfg.Languages, opt)
	case target.ModeFile:
		return target.NewFileDriven(r.content, r.cfg.ContentSite(), r.cfg.InputFile, opt)
	default:
		return target.NewSingle(r.content, r.cfg.ContentSite(), r.cfg.Article, opt)
	}
}

// modeArgument returns the command line value that selected mode.
func (r *runner) modeArgument(name string) string {
	switch name {
	case target.ModeCategory:
		return r.cfg.Category
	case target.ModeLanguages:
		return r.cfg.Languages
	case target.ModeFile:
		return r.cfg.InputFile
	default:
		return r.cfg.Article
	}
}

// runMode collects and emits every target of mode. It returns the number
// of failed targets, and an error only when the run must stop.
func (r *runner) runMode(ctx context.Context, mode target.Mode, collector *stats.Collector,
	dateRange *model.DateRange, format report.Format, output io.Writer) (int, error) {
	emitter, err := report.NewEmitter(format, output,
		report.WithSeparator(r.cfg.Separator),
		report.WithTitle(fmt.Sprintf("%s: %s", mode.Name(), r.modeArgument(mode.Name()))),
	)
	if err != nil {
		return 0, err
	}

	logger := r.logger.With("mode", mode.Name())
	logger.Debug("mode started")

	var failed, index int
	for t, err := range mode.Targets(ctx) {
		if err == nil {
			var rec *model.Record
			rec, err = collector.Collect(ctx, t.Page, dateRange)
			if err == nil {
				if err := emitter.Emit(index, t.Name, rec); err != nil {
					return failed, fmt.Errorf("write %s report: %w", mode.Name(), err)
				}
				index++
				continue
			}
		}

		if ctx.Err() != nil {
			return failed, ctx.Err()
		}
		if errors.Is(err, target.ErrNotACategory) {
			return failed, fmt.Errorf("%s mode: %w", mode.Name(), err)
		}
		failed++
		logger.Error("target failed", "target", t.Name, "error", err)
		if r.cfg.FailFast {
			return failed, fmt.Errorf("%s mode: %w", mode.Name(), err)
		}
	}

	if err := emitter.Flush(); err != nil {
		return failed, fmt.Errorf("write %s report: %w", mode.Name(), err)
	}
	logger.Debug("mode finished", "rows", index, "failed", failed)
	return failed, nil
}

// openOutput returns the report destination. A configured output file is
// created along with its parent directories.
func (r *runner) openOutput() (io.Writer, func(), error) {
	if r.cfg.OutputFile == "" {
		return r.stdout, func() {}, nil
	}

	dir := filepath.Dir(r.cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports are only readable by the owner
	f, err := os.OpenFile(r.cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			r.logger.Error("failed to close output file", "path", r.cfg.OutputFile, "error", err)
		}
	}, nil
}
