package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pvlkh/rostrum/internal/config"
	"github.com/pvlkh/rostrum/internal/persona"
	"github.com/pvlkh/rostrum/internal/vault"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		if err := syncConfigPersonas(store); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, p := range persona.List() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Description)
		}

		stored, err := store.ListPersonas()
		if err != nil {
			return err
		}
		for _, p := range stored {
			if persona.IsBuiltin(p.ID) {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s (custom)\n", p.ID, p.Name, p.Description)
		}
		return w.Flush()
	},
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Show credential vault status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appConfig.VaultConfigured() {
			fmt.Println("No vault configured.")
			fmt.Printf("Add keys under the vault section of %s, or pass --key to ask/debate.\n", config.DefaultConfigPath())
			return nil
		}

		fmt.Printf("Vault active: %d keys loaded\n", len(appConfig.Vault.Keys))
		for i, key := range appConfig.Vault.Keys {
			fmt.Printf("  %d. %s\n", i+1, vault.MaskKey(key))
		}
		return nil
	},
}

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List recent transcript exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		records, err := store.ListExports(20)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No exports recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSESSION\tFORMAT\tFILENAME")
		for _, rec := range records {
			sessID := rec.SessionID
			if len(sessID) > 8 {
				sessID = sessID[:8]
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.CreatedAt.Format("Jan 2 15:04"), sessID, rec.Format, rec.Filename)
		}
		return w.Flush()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.DefaultConfigPath())
	},
}

var configExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example config file",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(config.GenerateExample())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}

		if err := config.Default().SaveTo(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configExampleCmd)
	configCmd.AddCommand(configInitCmd)
}
