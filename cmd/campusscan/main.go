package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/briandowns/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"campusscan/internal/api"
	"campusscan/internal/browser"
	"campusscan/internal/config"
	"campusscan/internal/report"
	"campusscan/internal/scan"
	"campusscan/internal/scanner"
	"campusscan/internal/store"
	"campusscan/internal/ui"
)

type CLI struct {
	Config string `help:"Path to TOML config file" default:"campusscan.toml"`
	Debug  bool   `help:"Enable debug logging"`

	Scan  ScanCmd  `cmd:"" help:"Scan an institution website and extract campus/faculty/course entities"`
	Serve ServeCmd `cmd:"" help:"Run the scan HTTP API"`
}

type ScanCmd struct {
	URL       string `arg:"" help:"Institution start URL"`
	Output    string `help:"Directory for JSON output" short:"o" default:"output"`
	Persist   bool   `help:"Persist extracted entities to Postgres"`
	TUI       bool   `help:"Show the interactive scan monitor"`
	NoBrowser bool   `help:"Skip headless-browser pagination on listing pages"`
	MaxDepth  int    `help:"Maximum crawl depth (overrides config)" short:"d"`
	MaxPages  int    `help:"Maximum pages per scan (overrides config)" short:"p"`
}

func (cmd *ScanCmd) Run(cfg *config.Config, logger *log.Logger) error {
	if cmd.MaxDepth > 0 {
		cfg.Scan.MaxDepth = cmd.MaxDepth
	}
	if cmd.MaxPages > 0 {
		cfg.Scan.MaxPages = cmd.MaxPages
	}

	opts := []scan.Option{
		scan.WithMaxDepth(cfg.Scan.MaxDepth),
		scan.WithMaxPages(cfg.Scan.MaxPages),
		scan.WithPagination(scanner.PaginationOptions{
			Wait:   time.Duration(cfg.Scan.WaitMs) * time.Millisecond,
			Logger: logger,
		}),
		scan.WithLogger(logger),
	}

	if !cmd.NoBrowser {
		b, err := browser.New(browser.WithHeadless(cfg.Scan.Headless))
		if err != nil {
			logger.Warn("browser unavailable, listing pages use static markup", "err", err)
		} else {
			defer b.Close()
			opts = append(opts, scan.WithRenderer(b))
		}
	}

	var result *scan.Result
	var err error
	if cmd.TUI {
		result, err = cmd.runWithMonitor(opts, logger)
	} else {
		result, err = cmd.runWithSpinner(opts)
	}
	if err != nil {
		return err
	}

	writer, err := report.New(cmd.Output)
	if err != nil {
		return err
	}
	resultPath, err := writer.WriteResult(result)
	if err != nil {
		return err
	}
	entitiesPath, err := writer.WriteHierarchy(result.StartURL, result.Hierarchy)
	if err != nil {
		return err
	}
	logger.Info("results written", "result", resultPath, "entities", entitiesPath)

	if cmd.Persist {
		if cfg.Database.URL == "" {
			return fmt.Errorf("--persist requires a database URL (config [database].url or DATABASE_URL)")
		}
		ctx := context.Background()
		db, err := store.New(ctx, cfg.Database.URL, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		scanID, err := db.SaveScan(ctx, result.StartURL, result.Entities)
		if err != nil {
			return err
		}
		logger.Info("entities persisted", "scan_id", scanID)
	}

	fmt.Printf("scanned %d pages: %d campuses, %d faculties, %d courses\n",
		len(result.Pages),
		len(result.Entities.Campuses),
		len(result.Entities.Faculties),
		len(result.Entities.Courses))
	return nil
}

// runWithSpinner runs the scan with a terminal spinner tracking the page
// being processed.
func (cmd *ScanCmd) runWithSpinner(opts []scan.Option) (*scan.Result, error) {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = " " + cmd.URL
	s.Start()
	defer s.Stop()

	opts = append(opts, scan.WithPageCallback(func(page scanner.ScrapedPage, _ scanner.PaginationInfo) {
		s.Suffix = fmt.Sprintf(" [%s] %s", page.PageType, ui.Truncate(page.URL, 60))
	}))

	engine := scan.NewEngine(opts...)
	return engine.Scan(context.Background(), cmd.URL)
}

// scanOutcome carries the scan goroutine's result across to the monitor's
// goroutine once the program has exited.
type scanOutcome struct {
	result *scan.Result
	err    error
}

// runWithMonitor runs the scan behind the bubbletea monitor. The scan
// goroutine hands its outcome over a channel only; the channel receive after
// p.Run returns joins the goroutine, so an early quit still synchronizes with
// the in-flight scan before its result is read.
func (cmd *ScanCmd) runWithMonitor(opts []scan.Option, logger *log.Logger, progOpts ...tea.ProgramOption) (*scan.Result, error) {
	p := tea.NewProgram(ui.NewMonitor(cmd.URL), progOpts...)

	opts = append(opts, scan.WithPageCallback(func(page scanner.ScrapedPage, pag scanner.PaginationInfo) {
		p.Send(ui.PageScannedMsg{URL: page.URL, PageType: page.PageType, Pagination: pag})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := scan.NewEngine(opts...)

	outcome := make(chan scanOutcome, 1)
	go func() {
		result, err := engine.Scan(ctx, cmd.URL)
		outcome <- scanOutcome{result: result, err: err}
		if err != nil {
			p.Send(ui.ScanErrorMsg{Err: err})
			return
		}
		p.Send(ui.ScanDoneMsg{Result: result})
	}()

	_, runErr := p.Run()
	cancel()
	out := <-outcome
	if runErr != nil {
		return nil, fmt.Errorf("monitor failed: %w", runErr)
	}

	if out.err != nil {
		return nil, out.err
	}
	if out.result == nil {
		return nil, fmt.Errorf("scan aborted")
	}
	return out.result, nil
}

type ServeCmd struct{}

func (cmd *ServeCmd) Run(cfg *config.Config, logger *log.Logger) error {
	engine := scan.NewEngine(
		scan.WithMaxDepth(cfg.Scan.MaxDepth),
		scan.WithMaxPages(cfg.Scan.MaxPages),
		scan.WithPagination(scanner.PaginationOptions{
			Wait:   time.Duration(cfg.Scan.WaitMs) * time.Millisecond,
			Logger: logger,
		}),
		scan.WithLogger(logger),
	)

	handler := &api.Handler{Scanner: engine, Log: logger}

	if cfg.Database.URL != "" {
		db, err := store.New(context.Background(), cfg.Database.URL, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		handler.Persister = db
	}

	r := api.NewRouter(handler)
	logger.Info("api listening", "addr", cfg.Addr())
	return r.Run(cfg.Addr())
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("campusscan"),
		kong.Description("Heuristic scanner for higher-education institution websites."),
		kong.UsageOnError(),
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(cli.Config)
	ctx.FatalIfErrorf(err)

	ctx.FatalIfErrorf(ctx.Run(cfg, logger))
}
