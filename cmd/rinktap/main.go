package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/funnyzak/rinktap/internal/catalog"
	"github.com/funnyzak/rinktap/internal/config"
	"github.com/funnyzak/rinktap/internal/controller"
	"github.com/funnyzak/rinktap/internal/dispatch"
	"github.com/funnyzak/rinktap/internal/logger"
	"github.com/funnyzak/rinktap/internal/printer"
	"github.com/funnyzak/rinktap/internal/relay"
	"github.com/funnyzak/rinktap/internal/trace"
	"github.com/funnyzak/rinktap/internal/web"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rinktap",
	Short: "League data fetcher with relay fallback",
	Long: `RinkTap fetches league schedule, standings, roster and statistics
data through an ordered list of public CORS relays, falling back to the
next relay on any failure.
`,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <operation>",
	Short: "Fetch one operation and print the result",
	Long: `Fetch one catalog operation through the relay list and print the
response envelope. Use "fetch all" to pull every operation concurrently.
`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local inspector server",
	RunE:  runServe,
}

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List catalog operations and team codes",
	Run:   showOperations,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run:   showVersion,
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Bool("log-file-enable", false, "Enable file logging")
	rootCmd.PersistentFlags().String("log-file-path", "", "Log file path")
	rootCmd.PersistentFlags().Int("timeout", 0, "Outbound request timeout (seconds)")
	rootCmd.PersistentFlags().String("user-agent", "", "Outbound User-Agent header")
	rootCmd.PersistentFlags().Bool("trace", false, "Record every relay attempt to the trace store")
	rootCmd.PersistentFlags().String("trace-path", "", "Attempt trace database path")

	fetchCmd.Flags().StringP("team", "t", "", "Team code for team-scoped operations (e.g. COL)")
	fetchCmd.Flags().StringP("season", "s", "", "Season in YYYYYYYY form (e.g. 20252026)")
	fetchCmd.Flags().StringP("format", "o", "", "Output format (console, json, yaml)")
	fetchCmd.Flags().Bool("no-color", false, "Disable colored console output")

	serveCmd.Flags().IntP("port", "p", 0, "Inspector server listen port")

	bindFlags(rootCmd)

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(operationsCmd)
	rootCmd.AddCommand(versionCmd)
}

func bindFlags(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file_logging.enable", cmd.PersistentFlags().Lookup("log-file-enable"))
	viper.BindPFlag("log.file_logging.path", cmd.PersistentFlags().Lookup("log-file-path"))
	viper.BindPFlag("client.timeout", cmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("client.user_agent", cmd.PersistentFlags().Lookup("user-agent"))
	viper.BindPFlag("trace.enable", cmd.PersistentFlags().Lookup("trace"))
	viper.BindPFlag("trace.path", cmd.PersistentFlags().Lookup("trace-path"))

	viper.BindPFlag("output.format", fetchCmd.Flags().Lookup("format"))
	viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
}

// loadConfig loads configuration and applies command line overrides
// (command line has highest priority).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadConfig(configPath, viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel, err := cmd.Flags().GetString("log-level"); err == nil && logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFileEnable, err := cmd.Flags().GetBool("log-file-enable"); err == nil && cmd.Flags().Changed("log-file-enable") {
		cfg.Log.FileLogging.Enable = logFileEnable
	}
	if logFilePath, err := cmd.Flags().GetString("log-file-path"); err == nil && logFilePath != "" {
		cfg.Log.FileLogging.Path = logFilePath
	}
	if timeout, err := cmd.Flags().GetInt("timeout"); err == nil && timeout != 0 {
		cfg.Client.Timeout = timeout
	}
	if userAgent, err := cmd.Flags().GetString("user-agent"); err == nil && userAgent != "" {
		cfg.Client.UserAgent = userAgent
	}
	if traceEnable, err := cmd.Flags().GetBool("trace"); err == nil && cmd.Flags().Changed("trace") {
		cfg.Trace.Enable = traceEnable
	}
	if tracePath, err := cmd.Flags().GetString("trace-path"); err == nil && tracePath != "" {
		cfg.Trace.Path = tracePath
	}

	if format, err := cmd.Flags().GetString("format"); err == nil && format != "" {
		cfg.Output.Format = format
	}
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		cfg.Output.Color = false
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && port != 0 {
		cfg.Serve.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func dispatchOptions(cfg *config.Config) dispatch.Options {
	return dispatch.Options{
		Timeout:               time.Duration(cfg.Client.Timeout) * time.Second,
		MaxIdleConns:          cfg.Client.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.Client.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.Client.MaxConnsPerHost,
		IdleConnTimeout:       time.Duration(cfg.Client.IdleConnTimeout) * time.Second,
		ResponseHeaderTimeout: time.Duration(cfg.Client.ResponseHeaderTimeout) * time.Second,
		TLSHandshakeTimeout:   time.Duration(cfg.Client.TLSHandshakeTimeout) * time.Second,
		TLSInsecureSkipVerify: cfg.Client.TLSInsecureSkipVerify,
		UserAgent:             cfg.Client.UserAgent,
	}
}

func openTraceStore(cfg *config.Config, log logger.Logger) (trace.Store, error) {
	if !cfg.Trace.Enable {
		return nil, nil
	}
	return trace.New(&cfg.Trace, log)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(&cfg.Log, cfg.Output.Format)

	store, err := openTraceStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open trace store: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	relays, err := relay.NewList(cfg.RelayEntries())
	if err != nil {
		return fmt.Errorf("invalid relay list: %w", err)
	}

	var recorders []dispatch.Recorder
	if store != nil {
		recorders = append(recorders, store)
	}
	d := dispatch.New(log, relays, dispatchOptions(cfg), recorders...)
	defer d.Close()

	out, err := printer.New(&cfg.Output, log)
	if err != nil {
		return err
	}

	hosts := catalog.Hosts{
		Primary:    cfg.Hosts.Primary,
		Statistics: cfg.Hosts.Statistics,
	}

	team, _ := cmd.Flags().GetString("team")
	season, _ := cmd.Flags().GetString("season")
	if season == "" {
		season = cfg.Catalog.DefaultSeason
	}

	if args[0] == "all" {
		return fetchAll(cmd.Context(), d, hosts, log, out, team, season)
	}
	return fetchOne(cmd.Context(), d, hosts, log, out, args[0], team, season)
}

func fetchOne(ctx context.Context, d *dispatch.Dispatcher, hosts catalog.Hosts, log logger.Logger, out printer.Printer, operation, team, season string) error {
	path, family, err := catalog.Resolve(operation, team, season)
	if err != nil {
		return err
	}

	ctrl := controller.New(d, hosts, log, controller.Options{})
	if _, err := ctrl.Invoke(ctx, path, family); err != nil {
		return err
	}
	return out.PrintEnvelope(ctrl.State().Envelope)
}

// fetchAll pulls every applicable catalog operation concurrently, one
// controller per operation. Relays inside each dispatch still run
// strictly in order; only operations run in parallel.
func fetchAll(ctx context.Context, d *dispatch.Dispatcher, hosts catalog.Hosts, log logger.Logger, out printer.Printer, team, season string) error {
	names := catalog.OperationNames()
	envelopes := make([]*dispatch.Envelope, len(names))

	var skipped []string
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, name := range names {
		path, family, err := catalog.Resolve(name, team, season)
		if err != nil {
			// Team-scoped operations are skipped when no team is given.
			skipped = append(skipped, name)
			continue
		}

		i, name := i, name
		g.Go(func() error {
			ctrl := controller.New(d, hosts, log, controller.Options{})
			if _, err := ctrl.Invoke(gctx, path, family); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			envelopes[i] = ctrl.State().Envelope
			return nil
		})
	}

	for _, name := range skipped {
		log.Warn("Skipping operation without team code", "operation", name)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, env := range envelopes {
		if env == nil {
			continue
		}
		if err := out.PrintEnvelope(env); err != nil {
			return err
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(&cfg.Log, "console")

	store, err := openTraceStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open trace store: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	relays, err := relay.NewList(cfg.RelayEntries())
	if err != nil {
		return fmt.Errorf("invalid relay list: %w", err)
	}

	hub := web.NewWebsocketHub(log)

	recorders := []dispatch.Recorder{hub}
	if store != nil {
		recorders = append(recorders, store)
	}
	d := dispatch.New(log, relays, dispatchOptions(cfg), recorders...)
	defer d.Close()

	hosts := catalog.Hosts{
		Primary:    cfg.Hosts.Primary,
		Statistics: cfg.Hosts.Statistics,
	}

	ctrl := controller.New(d, hosts, log, controller.Options{
		OnSuccess: func(payload json.RawMessage) {
			hub.Broadcast(web.Event{Type: "phase", Phase: string(controller.PhaseSuccess)})
		},
		OnError: func(message string) {
			hub.Broadcast(web.Event{Type: "phase", Phase: string(controller.PhaseError), Message: message})
		},
	})

	printStartupBanner(cfg, log, len(relays))

	service := web.NewService(log, ctrl, store, hub)
	srv := web.NewServer(cfg, log, service)
	return srv.Start()
}

func showOperations(cmd *cobra.Command, args []string) {
	fmt.Println("Operations:")
	for _, name := range catalog.OperationNames() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("Teams:")
	for _, code := range catalog.TeamCodes() {
		fmt.Printf("  %s  %s\n", code, catalog.TeamName(code))
	}
}

func showVersion(cmd *cobra.Command, args []string) {
	fmt.Printf("RinkTap version %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Built: %s\n", buildDate)
}

func printStartupBanner(cfg *config.Config, log logger.Logger, relayCount int) {
	fmt.Println()
	fmt.Printf("RinkTap v%s\n", version)
	fmt.Printf("  Inspector:   http://0.0.0.0:%d\n", cfg.Serve.Port)
	fmt.Printf("  Primary:     %s\n", cfg.Hosts.Primary)
	fmt.Printf("  Statistics:  %s\n", cfg.Hosts.Statistics)
	fmt.Printf("  Relays:      %d configured\n", relayCount)
	if cfg.Trace.Enable {
		fmt.Printf("  Trace:       %s\n", cfg.Trace.Path)
	} else {
		fmt.Println("  Trace:       disabled")
	}
	fmt.Println()
	fmt.Println("(Press Ctrl+C to stop)")
	fmt.Println()

	log.Info("RinkTap starting",
		"version", version,
		"port", cfg.Serve.Port,
		"log_level", cfg.Log.Level,
		"relays", relayCount,
		"trace", cfg.Trace.Enable,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
