package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/caredash/caredash/internal/api"
	"github.com/caredash/caredash/internal/app"
	"github.com/caredash/caredash/internal/config"
	"github.com/caredash/caredash/internal/export"
	"github.com/caredash/caredash/internal/log"
	"github.com/caredash/caredash/internal/registry"
	"github.com/caredash/caredash/internal/session"
	"github.com/caredash/caredash/internal/ui"
)

// version is set by ldflags during build
var version = "dev"

func main() {
	opts := parseFlags()

	propagateAllProxy()

	// Set custom config path (CLI flag > env var > default)
	configPath := opts.configFile
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv("CAREDASH_CONFIG"))
	}
	if configPath != "" {
		if err := config.SetConfigPath(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fileCfg := config.File()
	cfg := config.Global()

	// Check environment variables (CLI flags take precedence)
	if !opts.readOnly {
		if v := os.Getenv("CAREDASH_READ_ONLY"); v == "1" || v == "true" {
			opts.readOnly = true
		}
	}
	if opts.apiURL == "" {
		opts.apiURL = strings.TrimSpace(os.Getenv("CAREDASH_API_URL"))
	}
	cfg.SetReadOnly(opts.readOnly)

	if opts.profile != "" && !config.IsValidProfileName(opts.profile) {
		fmt.Fprintf(os.Stderr, "Error: invalid profile name: %s\n", opts.profile)
		fmt.Fprintln(os.Stderr, "Valid characters: alphanumeric, hyphen, underscore, period")
		os.Exit(1)
	}

	profiles, err := loadProfiles()
	if err != nil {
		cfg.AddWarning(fmt.Sprintf("Could not read backend profiles: %v", err))
	}
	if err := applyStartupConfig(opts, profiles, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateBaseURL(cfg.BaseURL()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ui.ApplyConfigWithOverride(fileCfg.GetTheme(), opts.theme); err != nil {
		cfg.AddWarning(fmt.Sprintf("Theme not applied: %v", err))
	}

	var startEntity string
	if opts.entity != "" {
		startEntity, err = resolveStartEntity(opts.entity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Enable logging if log file specified
	if opts.logFile != "" {
		if err := log.EnableFile(opts.logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file %s: %v\n", opts.logFile, err)
		} else {
			log.Info("caredash started", "version", version, "profile", cfg.Profile(), "apiURL", cfg.BaseURL(), "readOnly", opts.readOnly)
		}
	}

	ctx := context.Background()

	store := session.NewStore(session.NewHandoff(fileCfg.HandoffCapacity(), fileCfg.HandoffTTL()))
	client := api.New(cfg.BaseURL(),
		api.WithTimeout(fileCfg.RequestTimeout()),
		api.WithTokenSource(store.Token),
	)

	application := app.New(ctx, registry.Global, client, store,
		app.WithExporter(newExporter(ctx, fileCfg.ExportSettings(), cfg)),
		app.WithStartEntity(startEntity),
	)

	// Note: In v2, AltScreen and MouseMode are set via the View struct
	p := tea.NewProgram(application)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	profile    string
	apiURL     string
	email      string
	readOnly   bool
	logFile    string
	configFile string
	entity     string
	theme      string
}

// parseFlags parses command line flags and returns options
func parseFlags() cliOptions {
	return parseFlagsFromArgs(os.Args[1:])
}

// parseFlagsFromArgs parses the given args and returns options (testable)
func parseFlagsFromArgs(args []string) cliOptions {
	opts := cliOptions{}
	showHelp := false
	showVersion := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-p", "--profile":
			if i+1 < len(args) {
				i++
				opts.profile = strings.TrimSpace(args[i])
			}
		case "-u", "--api-url":
			if i+1 < len(args) {
				i++
				opts.apiURL = strings.TrimSpace(args[i])
			}
		case "--email":
			if i+1 < len(args) {
				i++
				opts.email = strings.TrimSpace(args[i])
			}
		case "-ro", "--read-only":
			opts.readOnly = true
		case "-l", "--log-file":
			if i+1 < len(args) {
				i++
				opts.logFile = args[i]
			}
		case "-c", "--config":
			if i+1 < len(args) {
				i++
				opts.configFile = args[i]
			}
		case "-s", "--entity":
			if i+1 < len(args) {
				i++
				opts.entity = args[i]
			}
		case "-t", "--theme":
			if i+1 < len(args) {
				i++
				opts.theme = args[i]
			}
		case "-h", "--help":
			showHelp = true
		case "-v", "--version":
			showVersion = true
		}
	}

	if showVersion {
		fmt.Printf("caredash %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printUsage()
		os.Exit(0)
	}

	return opts
}

func printUsage() {
	fmt.Println("caredash - A terminal dashboard for patients, care centers and teams")
	fmt.Println()
	fmt.Println("Usage: caredash [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -p, --profile <name>")
	fmt.Println("        Backend profile from ~/.config/caredash/profiles")
	fmt.Println("  -u, --api-url <url>")
	fmt.Println("        Backend API base URL (overrides the profile and config file)")
	fmt.Println("  --email <address>")
	fmt.Println("        Prefill the login email")
	fmt.Println("  -s, --entity <name>")
	fmt.Println("        Open an entity right after sign-in (e.g., patients, centers, teams)")
	fmt.Println("        Supports aliases: p, c, t, etc.")
	fmt.Println("  -ro, --read-only")
	fmt.Println("        Run in read-only mode (disable exports)")
	fmt.Println("  -c, --config <path>")
	fmt.Println("        Use custom config file instead of ~/.config/caredash/config.yaml")
	fmt.Println("  -l, --log-file <path>")
	fmt.Println("        Enable debug logging to specified file")
	fmt.Println("  -t, --theme <name>")
	fmt.Printf("        Color theme: %s\n", strings.Join(ui.AvailableThemes(), ", "))
	fmt.Println("  -v, --version")
	fmt.Println("        Show version")
	fmt.Println("  -h, --help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  caredash                          Start on the login screen")
	fmt.Println("  caredash -p staging               Use the staging backend profile")
	fmt.Println("  caredash -s patients              Open patients after sign-in")
	fmt.Println("  caredash -u http://localhost:3000/api --email ops@example.org")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CAREDASH_API_URL=<url>      Backend API base URL")
	fmt.Println("  CAREDASH_CONFIG=<path>      Use custom config file")
	fmt.Println("  CAREDASH_READ_ONLY=1|true   Enable read-only mode")
	fmt.Println("  ALL_PROXY                   Propagated to HTTP_PROXY/HTTPS_PROXY if not set")
}

func loadProfiles() ([]config.Profile, error) {
	path, err := config.ProfilesPath()
	if err != nil {
		return nil, err
	}
	return config.LoadProfiles(path)
}

// applyStartupConfig resolves the backend target. An explicit profile must
// exist; otherwise the "default" profile is used when present. The API URL
// and email flags override whatever the profile set.
func applyStartupConfig(opts cliOptions, profiles []config.Profile, cfg *config.Config) error {
	name := opts.profile
	if name == "" {
		name = "default"
	}
	if p, ok := config.FindProfile(profiles, name); ok {
		cfg.UseProfile(p)
	} else if opts.profile != "" {
		return fmt.Errorf("unknown profile: %s", opts.profile)
	}

	if opts.apiURL != "" {
		if err := config.ValidateBaseURL(opts.apiURL); err != nil {
			return err
		}
		cfg.SetBaseURL(opts.apiURL)
	}
	if opts.email != "" {
		cfg.SetDefaultEmail(opts.email)
	}
	return nil
}

// resolveStartEntity maps an entity name or alias to a registered entity.
func resolveStartEntity(input string) (string, error) {
	entity, ok := registry.Global.ResolveAlias(input)
	if !ok {
		return "", fmt.Errorf("unknown entity: %s (available: %s)", input, strings.Join(registry.Global.List(), ", "))
	}
	return entity, nil
}

// newExporter builds the table exporter. A failing S3 setup leaves exports
// local and is reported as a startup warning.
func newExporter(ctx context.Context, exp config.ExportConfig, cfg *config.Config) *export.Exporter {
	uploader, err := export.NewS3UploaderFromConfig(ctx, exp)
	if err != nil {
		log.Warn("S3 export disabled", "bucket", exp.S3Bucket, "error", err)
		cfg.AddWarning(fmt.Sprintf("S3 upload disabled, exports stay local: %v", err))
		uploader = nil
	}
	return export.New(exp.Dir, uploader)
}

// propagateAllProxy copies ALL_PROXY to HTTP_PROXY/HTTPS_PROXY if not set.
// Go's net/http ignores ALL_PROXY, so we propagate it to the standard vars.
func propagateAllProxy() {
	allProxy := os.Getenv("ALL_PROXY")
	if allProxy == "" {
		return
	}

	var propagated []string

	if os.Getenv("HTTPS_PROXY") == "" {
		if err := os.Setenv("HTTPS_PROXY", allProxy); err != nil {
			log.Warn("failed to set HTTPS_PROXY", "error", err)
		} else {
			propagated = append(propagated, "HTTPS_PROXY")
		}
	}

	if os.Getenv("HTTP_PROXY") == "" {
		if err := os.Setenv("HTTP_PROXY", allProxy); err != nil {
			log.Warn("failed to set HTTP_PROXY", "error", err)
		} else {
			propagated = append(propagated, "HTTP_PROXY")
		}
	}

	if len(propagated) > 0 {
		log.Debug("propagated ALL_PROXY", "to", propagated)
	}
}
