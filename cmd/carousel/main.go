package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/carouselhq/carousel/pkg/api"
	"github.com/carouselhq/carousel/pkg/config"
	"github.com/carouselhq/carousel/pkg/device"
	"github.com/carouselhq/carousel/pkg/hashtag"
	"github.com/carouselhq/carousel/pkg/health"
	"github.com/carouselhq/carousel/pkg/library"
	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/metrics"
	"github.com/carouselhq/carousel/pkg/reconciler"
	"github.com/carouselhq/carousel/pkg/storage"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Carousel - upload-wait-delete cycle automation for short videos",
	Long: `Carousel drives upload-wait-delete cycles of short videos on a
physical phone across multiple accounts. A background loop polls the
stored sessions and advances each one through its cycle, while a REST
API manages accounts, videos, hashtag templates and the device.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Carousel version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("server", "http://127.0.0.1:8080", "API server address")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(deviceCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the carousel daemon",
	Long: `Run the carousel daemon: the reconciliation loop, the videos
directory watcher and the REST API, all in one process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		// Local .env files are a convenience for development setups
		_ = godotenv.Load()

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}

		log.Init(log.Config{
			Level:      log.Level(cfg.Logging.Level),
			JSONOutput: cfg.Logging.JSONOutput,
		})

		store, err := storage.NewBoltStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open store: %v", err)
		}

		mgr := manager.NewManager(store)

		driver := device.NewBridgeDriver(device.Config{
			HostURL: cfg.Device.HostURL,
			UDID:    cfg.Device.UDID,
			Timeout: cfg.Device.RequestTimeout,
		})

		generator := hashtag.NewOpenAIGenerator(
			cfg.Hashtags.APIKey,
			cfg.Hashtags.BaseURL,
			cfg.Hashtags.Model,
			cfg.Hashtags.RequestTimeout,
		)
		tags := hashtag.NewSource(store, generator, cfg.Hashtags.Theme)

		lib, err := library.NewLibrary(mgr, cfg.VideosDir)
		if err != nil {
			return fmt.Errorf("failed to set up video library: %v", err)
		}
		if err := lib.Start(); err != nil {
			return fmt.Errorf("failed to start video library: %v", err)
		}
		fmt.Println("✓ Video library watching", cfg.VideosDir)

		recon := reconciler.NewReconciler(mgr, driver, tags, reconciler.Options{
			PollInterval: cfg.Automation.PollInterval,
			ErrorBackoff: cfg.Automation.ErrorBackoff,
			BatchSize:    cfg.Automation.BatchSize,
		})
		recon.Start()
		fmt.Println("✓ Reconciler started")

		collector := metrics.NewCollector(mgr)
		collector.Start()

		checker := health.NewHTTPChecker(cfg.Device.HostURL + "/status").
			WithTimeout(10 * time.Second)
		monitor := health.NewMonitor(checker, health.DefaultConfig(), mgr.GetEventBroker())
		monitor.Start()

		apiServer := api.NewServer(mgr, driver, tags, generator, cfg.VideosDir)
		errCh := make(chan error, 1)
		go func() {
			if err := apiServer.Start(cfg.ListenAddr); err != nil {
				errCh <- fmt.Errorf("API server error: %v", err)
			}
		}()
		fmt.Println("✓ API listening on", cfg.ListenAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
		case err := <-errCh:
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = apiServer.Shutdown(shutdownCtx)
		monitor.Stop()
		collector.Stop()
		recon.Stop()
		lib.Stop()
		if err := mgr.Shutdown(); err != nil {
			return fmt.Errorf("failed to shut down: %v", err)
		}

		fmt.Println("✓ Shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("config", "", "Path to YAML config file")
}
