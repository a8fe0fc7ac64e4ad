package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pvlkh/rostrum/internal/core"
	"github.com/pvlkh/rostrum/internal/engine"
	"github.com/pvlkh/rostrum/internal/transcript"
)

var (
	askFiles   []string
	askPersona string
	manualKey  string
)

func init() {
	askCmd.Flags().StringArrayVarP(&askFiles, "file", "f", nil, "Attach a document (repeatable)")
	askCmd.Flags().StringVar(&askPersona, "persona", "", "Persona ID (default: researcher)")
	askCmd.Flags().StringVar(&manualKey, "key", "", "Manual API key, used if the vault is absent or exhausted")
	debateCmd.Flags().StringVar(&manualKey, "key", "", "Manual API key, used if the vault is absent or exhausted")
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot document question",
	Long: `Ask a question against zero or more attached documents.

Examples:
  rostrum ask "What is entropy?"
  rostrum ask "Summarize chapter 3" -f thesis.pdf -f figure.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, store, err := buildEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		sess := transcript.NewSession()
		if manualKey != "" {
			sess.SetManualKey(manualKey)
		}

		for _, path := range askFiles {
			doc, err := loadDocument(path)
			if err != nil {
				return err
			}
			sess.AddDocument(doc)
		}

		question := args[0]
		fmt.Printf("You: %s\n\n", question)

		var entry *core.Entry
		if askPersona != "" {
			entry, err = eng.AskAs(cmd.Context(), sess, question, askPersona)
		} else {
			entry, err = eng.Ask(cmd.Context(), sess, question)
		}
		if err != nil {
			return err
		}

		fmt.Println(entry.Content)
		return nil
	},
}

var debateCmd = &cobra.Command{
	Use:   "debate [topic]",
	Short: "Run a three-persona debate on a topic",
	Long: `Run the fixed debate sequence on a topic: a formal theorist opens,
an applied scientist critiques, and the head researcher delivers a verdict.

Example:
  rostrum debate "Is string theory falsifiable?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, store, err := buildEngine()
		if err != nil {
			return err
		}
		defer store.Close()

		sess := transcript.NewSession()
		if manualKey != "" {
			sess.SetManualKey(manualKey)
		}

		topic := args[0]
		fmt.Printf("Topic: %s\n", topic)

		result, err := eng.RunDebate(cmd.Context(), sess, topic, func(step engine.DebateStep) {
			fmt.Printf("\n=== %s ===\n%s\n", strings.ToUpper(string(step.Role)), step.Response)
		})
		if err != nil {
			return err
		}

		if !result.Completed() {
			return fmt.Errorf("%s step failed: %w", result.FailedRole, result.Err)
		}
		return nil
	},
}

// loadDocument reads a file and tags it with a media type, preferring the
// extension and falling back to content sniffing.
func loadDocument(path string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}

	return core.Document{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Data:      data,
	}, nil
}
