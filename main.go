package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dop251/goja"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Sudo-Ivan/arcgis-viewer/pkg/app"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/arcgis"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/config"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/engine/headless"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/engine/term"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/export"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/logging"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/remote"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/scene"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/script"
	"github.com/Sudo-Ivan/arcgis-viewer/pkg/view"
)

// ANSI color codes for console output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// useColor controls whether colored output is enabled.
var useColor = true

// options holds the command line. set records which flags were given so
// only those override the config file.
type options struct {
	configPath     string
	mode           string
	script         string
	listen         string
	output         string
	format         string
	logFile        string
	logLevel       string
	timeout        int
	syncViewpoints bool
	snapZoom       bool
	noColor        bool

	set map[string]bool
}

func parseFlags(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("arcgis-viewer", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file (default: built-in European capitals viewer)")
	fs.StringVar(&opts.mode, "mode", DefaultMode, "Run mode (tui, headless, remote)")
	fs.StringVar(&opts.script, "script", "", "JavaScript file driving the viewer (headless mode)")
	fs.StringVar(&opts.listen, "listen", "", "Address of the WebSocket control endpoint")
	fs.StringVar(&opts.output, "output", "", "Output directory for exports and snapshots")
	fs.StringVar(&opts.format, "format", "", "Measurement export format (geojson, kml, gpx)")
	fs.StringVar(&opts.logFile, "log-file", "", "Rotating log file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.IntVar(&opts.timeout, "timeout", config.DefaultTimeout, "HTTP request timeout in seconds")
	fs.BoolVar(&opts.syncViewpoints, "sync-viewpoints", false, "Start the 3D view at the 2D view's framing")
	fs.BoolVar(&opts.snapZoom, "snap-zoom", false, "Round transferred zoom levels to whole levels")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch opts.mode {
	case ModeTUI, ModeHeadless, ModeRemote:
	default:
		return options{}, fmt.Errorf("unknown mode %q", opts.mode)
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig reads the config file, if any, and applies the given flags.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}

	if opts.set["listen"] {
		cfg.Remote.Listen = opts.listen
	}
	if opts.set["output"] {
		cfg.Output.Dir = opts.output
	}
	if opts.set["format"] {
		cfg.Output.ExportFormat = opts.format
	}
	if opts.set["log-file"] {
		cfg.Log.File = opts.logFile
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.set["timeout"] {
		cfg.TimeoutSeconds = opts.timeout
	}
	if opts.set["sync-viewpoints"] {
		cfg.SyncInitialViewpoints = opts.syncViewpoints
	}
	if opts.set["snap-zoom"] {
		cfg.SnapZoom = opts.snapZoom
	}
	// the terminal belongs to the UI
	if opts.mode == ModeTUI && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Output.Dir, DefaultLogFile)
	}
	return cfg, cfg.Validate()
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(2)
	}
	useColor = !opts.noColor

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, opts, os.Stdout)
	stop()
	os.Exit(code)
}

// run starts the viewer and returns the process exit code.
func run(ctx context.Context, opts options, out io.Writer) int {
	cfg, err := loadConfig(opts)
	if err != nil {
		printError("Invalid configuration:")
		for _, e := range multierr.Errors(err) {
			printError("  " + e.Error())
		}
		return 1
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		printError(fmt.Sprintf("Error setting up logging: %v", err))
		return 1
	}
	defer closeLog()

	printInfo("Loading scene...")
	sc, err := loadScene(ctx, cfg, logger)
	if err != nil {
		reportError(err)
		return 1
	}
	if n := len(sc.Points()); n == 0 {
		printWarning(fmt.Sprintf("Feature layer %s has no point features.", sc.Features().Title))
	} else {
		printSuccess(fmt.Sprintf("Loaded %s with %d features.", sc.Features().Title, n))
	}

	switch opts.mode {
	case ModeHeadless:
		err = runHeadless(ctx, cfg, sc, opts.script, out, logger)
	case ModeRemote:
		err = runRemote(ctx, cfg, sc, logger)
	default:
		err = runTerminal(ctx, cfg, sc, opts.set["listen"], logger)
	}
	if err != nil {
		reportError(err)
		return 1
	}
	return 0
}

// loadScene fetches the layers. A failure means neither renderer can be
// built, so it is reported as a construction error of the scene.
func loadScene(ctx context.Context, cfg config.Config, logger *zap.Logger) (*scene.Scene, error) {
	client := arcgis.NewClient(cfg.Timeout(), logger)
	sc, err := scene.Load(ctx, client, cfg.Source(), logger)
	if err != nil {
		return nil, &view.ConstructionError{Component: "scene", Err: err}
	}
	return sc, nil
}

func reportError(err error) {
	var cerr *view.ConstructionError
	if errors.As(err, &cerr) {
		printError(fmt.Sprintf("Viewer could not be constructed: %v", err))
		return
	}
	printError(fmt.Sprintf("Error: %v", err))
}

func buildOptions(cfg config.Config, eng view.Engine, sc *scene.Scene, overlays view.Overlays, logger *zap.Logger) view.Options {
	return view.Options{
		Engine:      eng,
		Scene:       sc,
		Initial:     cfg.InitialViews(),
		Container:   cfg.Container,
		Overlays:    overlays,
		SnapZoom:    cfg.SnapZoom,
		SyncInitial: cfg.SyncInitialViewpoints,
		Logger:      logger,
	}
}

// startLoop runs the event loop until the returned stop function is called.
func startLoop(ctx context.Context, coord *view.Coordinator, logger *zap.Logger) (*app.Loop, func()) {
	coord.Subscribe(func(st view.State) {
		logger.Debug("viewer state",
			zap.Stringer("active", st.Active),
			zap.Stringer("tool", st.Measurement.Tool),
			zap.String("viewpoint", st.Viewpoint.Describe(st.Active)))
	})
	loop := app.NewLoop(coord, logger)
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	return loop, func() {
		cancel()
		<-done
	}
}

func newHeadless(cfg config.Config, sc *scene.Scene, logger *zap.Logger) (*view.Coordinator, error) {
	overlays := view.Overlays{
		Measurement: &headless.MeasurementWidget{},
		Legend:      &headless.Legend{Title: sc.Features().Title},
	}
	return view.Build(buildOptions(cfg, headless.NewEngine(), sc, overlays, logger))
}

// runHeadless runs the script, if any, and prints the final state as JSON.
func runHeadless(ctx context.Context, cfg config.Config, sc *scene.Scene, scriptPath string, out io.Writer, logger *zap.Logger) error {
	coord, err := newHeadless(cfg, sc, logger)
	if err != nil {
		return err
	}
	loop, stop := startLoop(ctx, coord, logger)
	defer stop()

	if scriptPath != "" {
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		printInfo(fmt.Sprintf("Running %s...", scriptPath))
		v, err := script.Run(ctx, string(src), scriptPath, loop, logger)
		if err != nil {
			return err
		}
		if v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
			printSuccess(fmt.Sprintf("Script returned %v", v.Export()))
		}
	}

	st, err := loop.State(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", JSONIndent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// runRemote serves the WebSocket endpoint until ctx is cancelled.
func runRemote(ctx context.Context, cfg config.Config, sc *scene.Scene, logger *zap.Logger) error {
	coord, err := newHeadless(cfg, sc, logger)
	if err != nil {
		return err
	}
	loop, stop := startLoop(ctx, coord, logger)
	defer stop()
	return serveRemote(ctx, cfg.Remote, loop, logger)
}

func serveRemote(ctx context.Context, rc config.Remote, d app.Dispatcher, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(RemotePath, remote.NewHandler(d, logger, rc.AllowedOrigins...))
	srv := &http.Server{Addr: rc.Listen, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	printInfo(fmt.Sprintf("Listening on ws://%s%s", rc.Listen, RemotePath))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// runTerminal runs the interactive viewer. withRemote additionally serves
// the WebSocket endpoint against the same event loop.
func runTerminal(ctx context.Context, cfg config.Config, sc *scene.Scene, withRemote bool, logger *zap.Logger) error {
	format, err := export.ParseFormat(cfg.Output.ExportFormat)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer screen.Fini()

	eng := term.NewEngine(screen, cfg.Container)
	widget := term.NewMeasurementWidget()
	legend := term.NewLegend(sc.Features().Title, len(sc.Points()))
	coord, err := view.Build(buildOptions(cfg, eng, sc, view.Overlays{Measurement: widget, Legend: legend}, logger))
	if err != nil {
		return err
	}
	loop, stop := startLoop(ctx, coord, logger)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if withRemote {
		go func() {
			if err := serveRemote(ctx, cfg.Remote, loop, logger); err != nil {
				logger.Error("remote endpoint stopped", zap.Error(err))
			}
		}()
	}

	ui := term.NewUI(eng, loop, widget, cfg.Output.Dir, logger)
	ui.Format = format
	return ui.Run(ctx)
}

// printColor prints a message to the console with the specified color.
func printColor(colorCode string, message string) {
	if useColor {
		fmt.Printf("%s%s%s\n", colorCode, message, colorReset)
	} else {
		fmt.Println(message)
	}
}

// printInfo prints an informational message to the console.
func printInfo(message string) {
	printColor(colorCyan, message)
}

// printSuccess prints a success message to the console.
func printSuccess(message string) {
	printColor(colorGreen, message)
}

// printWarning prints a warning message to the console.
func printWarning(message string) {
	printColor(colorYellow, message)
}

// printError prints an error message to the console.
func printError(message string) {
	printColor(colorRed, message)
}
