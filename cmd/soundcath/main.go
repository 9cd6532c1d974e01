package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soundcath/beamformer/internal/api"
	"github.com/soundcath/beamformer/internal/asic"
	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/config"
	"github.com/soundcath/beamformer/internal/db"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/report"
	"github.com/soundcath/beamformer/internal/scan"
	"github.com/soundcath/beamformer/internal/serialmux"
	"github.com/soundcath/beamformer/internal/session"
	"github.com/soundcath/beamformer/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a JSON or YAML configuration file (defaults built in)")
	dbPath      = flag.String("db", "soundcath.db", "Path to the scan cache database")
	plotsDir    = flag.String("plots", "", "Directory for delay heat maps and grid charts (disabled if empty)")
	workers     = flag.Int("workers", -1, "Scan build workers (0 = GOMAXPROCS, -1 = use config)")
	port        = flag.String("port", "", "Serial port of the probe bridge (disabled if empty)")
	baud        = flag.Int("baud", serialmux.DefaultBaudRate, "Serial baud rate")
	devMode     = flag.Bool("dev", false, "Talk to an emulated bridge instead of -port")
	listen      = flag.String("listen", ":8080", "Admin/debug and metrics listen address (disabled if empty)")
	grpcListen  = flag.String("grpc-listen", ":50051", "gRPC health listen address (disabled if empty)")
	once        = flag.Bool("once", false, "Build, store, report and upload, then exit without serving")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// options carries everything run needs so tests can drive it without flags.
type options struct {
	configPath string
	dbPath     string
	plotsDir   string
	workers    int
	port       string
	baud       int
	dev        bool
	listen     string
	grpcListen string
	once       bool
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	monitoring.SetDebug(*debug)

	if flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(os.Stdout, flag.Args()[1:], *dbPath); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", flag.Arg(0))
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("starting %s", version.String())
	err := run(ctx, options{
		configPath: *configPath,
		dbPath:     *dbPath,
		plotsDir:   *plotsDir,
		workers:    *workers,
		port:       *port,
		baud:       *baud,
		dev:        *devMode,
		listen:     *listen,
		grpcListen: *grpcListen,
		once:       *once,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	log.Printf("Graceful shutdown complete")
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), `soundcath - beamforming delay and coefficient engine

Usage:
  soundcath [flags]                 build the scan cache and serve it
  soundcath [flags] migrate <cmd>   manage the database schema (see "migrate help")

Flags:
`)
	flag.PrintDefaults()
}

// loadConfig reads path, or returns the built-in defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// openBridge picks the bridge transport: the emulator in dev mode, the
// serial port when one is named, otherwise a disabled stand-in.
func openBridge(o options) (serialmux.SerialMuxInterface, error) {
	switch {
	case o.dev:
		mux, _ := serialmux.NewMockSerialMux()
		return mux, nil
	case o.port != "":
		return serialmux.NewRealSerialMux(o.port, serialmux.PortOptions{BaudRate: o.baud})
	default:
		return serialmux.NewDisabledSerialMux(), nil
	}
}

// uploadBoresight configures the ASIC and loads the grid cell nearest to
// boresight.
func uploadBoresight(ctx context.Context, ctrl *asic.Controller, cfg *config.ASICConfig, c *scan.Cache) error {
	if err := ctrl.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	info, err := ctrl.Describe(ctx)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}
	log.Printf("bridge: %s, firmware %s", info.Description, info.Version)

	if err := ctrl.Configure(ctx, cfg); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	if err := ctrl.SetMode(ctx, asic.ModeBMode); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	i, j := c.Params().Nearest(0, 0)
	if err := ctrl.LoadCell(ctx, c, i, j); err != nil {
		return fmt.Errorf("load cell (%d, %d): %w", i, j, err)
	}
	return nil
}

// buildSummary describes a finished build for the startup log.
func buildSummary(c *scan.Cache, dbSize int64) string {
	st := c.Stats()
	p := c.Params()
	s := fmt.Sprintf("scan cache %s: %s cells (%dx%d, %s) built in %v on %d workers, %s tx / %s rx saturations",
		c.ID(), humanize.Comma(int64(st.Cells)), p.XSteps, p.YSteps, c.Mode(),
		st.Duration.Round(time.Millisecond), st.Workers,
		humanize.Comma(int64(st.TxSaturations)), humanize.Comma(int64(st.RxSaturations)))
	if dbSize > 0 {
		s += fmt.Sprintf(", database %s", humanize.Bytes(uint64(dbSize)))
	}
	return s
}

func run(ctx context.Context, o options) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	beam := beamform.ParamsFromConfig(cfg)
	sp := scan.ParamsFromConfig(&cfg.Scan)
	if o.workers >= 0 {
		sp.Workers = o.workers
	}

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	database, err := db.NewDB(o.dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	sess := session.New(beam, sp, session.WithMetrics(metrics))
	defer sess.Shutdown()
	if err := sess.Rebuild(ctx); err != nil {
		return err
	}
	cache := sess.Cache()
	if err := database.SaveCache(ctx, cache); err != nil {
		return fmt.Errorf("failed to store scan cache: %w", err)
	}

	var dbSize int64
	if fi, err := os.Stat(o.dbPath); err == nil {
		dbSize = fi.Size()
	}
	log.Print(buildSummary(cache, dbSize))

	if o.plotsDir != "" {
		if _, err := report.Write(o.plotsDir, cache); err != nil {
			return err
		}
	}

	bridge, err := openBridge(o)
	if err != nil {
		return fmt.Errorf("failed to open bridge: %w", err)
	}

	var lines serialmux.LineRecorder
	recording := lines.Record(bridge)

	var wg sync.WaitGroup
	bridgeCtx, cancelBridge := context.WithCancel(ctx)
	defer func() {
		cancelBridge()
		bridge.Close()
		wg.Wait()
		<-recording
		if st := lines.LastStatus(); st != "" {
			log.Printf("bridge: %d lines read, last status %q", lines.Lines(), st)
		}
	}()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := bridge.Monitor(bridgeCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("failed to monitor serial port: %v", err)
		}
	}()

	var ctrl *asic.Controller
	if o.dev || o.port != "" {
		ctrl = asic.NewController(bridge, asic.WithMetrics(metrics))
		if err := uploadBoresight(ctx, ctrl, &cfg.ASIC, cache); err != nil {
			return fmt.Errorf("asic upload: %w", err)
		}
		log.Printf("asic: boresight beam loaded")
	}

	if o.once {
		return nil
	}

	if o.grpcListen != "" {
		hs := session.NewHealthServer(o.grpcListen, sess)
		if err := hs.Start(); err != nil {
			return err
		}
		defer hs.Stop()
	}

	if o.listen == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	// mount the API handlers, then the admin debugging routes
	mux := api.NewServer(sess, database, ctrl, o.plotsDir).ServeMux()
	bridge.AttachAdminRoutes(mux)
	if err := database.AttachAdminRoutes(mux); err != nil {
		return err
	}
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    o.listen,
		Handler: api.LoggingMiddleware(mux),
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()
	log.Printf("admin server listening on %s", o.listen)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("HTTP server routine stopped")
	return ctx.Err()
}
