// Package main is logoctl, a command line client for the Logo Objects API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"logoobjects/internal/config"
	"logoobjects/internal/domain"
	"logoobjects/internal/domain/entities"
	"logoobjects/internal/infrastructure/logoapi"
	"logoobjects/internal/metadata"
	"logoobjects/pkg/logger"
)

var (
	// Version information (set by build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(newApp()).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what the subcommands share. Configuration and the API client
// are built on first use, so offline commands work without credentials.
type app struct {
	configFile   string
	envFiles     []string
	strictFields bool

	cfg      *config.Config
	log      *logger.Logger
	registry *metadata.Registry

	// connect builds the upstream requester; replaced in tests.
	connect func(a *app) (domain.Requester, error)
}

func newApp() *app {
	return &app{registry: entities.Registry(), connect: connectAPI}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "logoctl",
		Short:         "Command line client for the Logo Objects REST API",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a logoobjects.yaml file")
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	root.PersistentFlags().BoolVar(&a.strictFields, "strict-fields", false,
		"reject criteria fields missing from the entity table (also LOGO_API_STRICT_FIELDS)")

	root.AddCommand(
		newCompileCommand(a),
		newEntitiesCommand(a),
		newGetCommand(a),
		newSearchCommand(a),
		newInvokeCommand(a),
		newMirrorCommand(a),
	)
	return root
}

// load reads configuration and sets up logging once.
func (a *app) load() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, EnvFiles: a.envFiles})
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg, a.log = cfg, log
	return cfg, nil
}

func (a *app) currentLogger() *logger.Logger {
	if a.log == nil {
		return logger.Default()
	}
	return a.log
}

func (a *app) requester() (domain.Requester, error) {
	return a.connect(a)
}

func connectAPI(a *app) (domain.Requester, error) {
	cfg, err := a.load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return logoapi.New(cfg.LogoAPI(), logoapi.WithLogger(a.currentLogger()))
}

// entity resolves an entity name or REST path.
func (a *app) entity(name string) (metadata.EntityDef, error) {
	def, ok := a.registry.Get(name)
	if !ok {
		return metadata.EntityDef{}, fmt.Errorf("unknown entity %q, see logoctl entities", name)
	}
	def.Strict = def.Strict || a.strict()
	return def, nil
}

// strict reports whether field names must come from the entity tables.
// Configuration is consulted only once it has been loaded.
func (a *app) strict() bool {
	return a.strictFields || (a.cfg != nil && a.cfg.API.StrictFields)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
