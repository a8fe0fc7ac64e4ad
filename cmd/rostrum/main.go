package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pvlkh/rostrum/internal/config"
	"github.com/pvlkh/rostrum/internal/engine"
	"github.com/pvlkh/rostrum/internal/gemini"
	"github.com/pvlkh/rostrum/internal/storage"
	"github.com/pvlkh/rostrum/internal/vault"
)

var (
	dbPath    string
	cfgPath   string
	debug     bool
	appConfig *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rostrum",
	Short: "AI research station",
	Long: `rostrum is a research station backed by the Gemini API.

Upload documents and ask questions against them, or submit a topic to the
debate arena and watch a theorist, an applied scientist, and a synthesizing
head researcher argue it out. API keys rotate through a configured vault.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		if debug {
			opts.Level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))

		// Load config
		var err error
		if cfgPath != "" {
			appConfig, err = config.LoadFrom(cfgPath)
		} else {
			appConfig, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.rostrum/rostrum.db)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: ~/.rostrum/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(debateCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(configCmd)
}

func getStorage() (storage.Storage, error) {
	path := dbPath
	if path == "" && appConfig != nil {
		path = appConfig.Storage.Path
	}
	if path == "" {
		path = storage.DefaultDBPath()
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(); err != nil {
		return nil, err
	}

	return store, nil
}

func getPool() *vault.Pool {
	factory := gemini.NewFactory(appConfig.Model)
	return vault.NewPool(appConfig.Vault.Keys, factory)
}

// syncConfigPersonas upserts custom personas defined in the config file so
// the engine and web UI resolve them alongside builtins.
func syncConfigPersonas(store storage.Storage) error {
	for _, p := range appConfig.Personas {
		if p.ID == "" || p.Directive == "" {
			return fmt.Errorf("persona in config needs id and directive: %+v", p)
		}
		err := store.SavePersona(&storage.Persona{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Directive:   p.Directive,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// buildEngine wires storage, vault and engine for one command invocation.
func buildEngine() (*engine.Engine, *vault.Pool, storage.Storage, error) {
	store, err := getStorage()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err := syncConfigPersonas(store); err != nil {
		store.Close()
		return nil, nil, nil, fmt.Errorf("failed to sync personas: %w", err)
	}

	pool := getPool()
	return engine.New(pool, store), pool, store, nil
}
