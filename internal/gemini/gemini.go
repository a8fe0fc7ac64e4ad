// Package gemini wraps the Google Gemini API behind the vault's handle
// abstraction. Handle construction is local validation only: the SDK client
// constructor performs no network I/O, so a handle that constructs can still
// be rejected by the remote service when a request is submitted.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pvlkh/rostrum/internal/core"
	"github.com/pvlkh/rostrum/internal/vault"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Factory constructs Gemini client handles for the vault.
type Factory struct {
	model string
}

// NewFactory creates a factory producing handles for the given model.
func NewFactory(model string) *Factory {
	if model == "" {
		model = DefaultModel
	}
	return &Factory{model: model}
}

// New constructs a handle binding one credential to one behavioral
// directive. It validates the key locally and builds the SDK client; it
// never contacts the service.
func (f *Factory) New(ctx context.Context, key, directive string) (vault.Caller, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("credential is empty")
	}
	if strings.ContainsAny(key, " \t\n") {
		return nil, fmt.Errorf("credential contains whitespace")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Handle{
		client:    client,
		model:     f.model,
		directive: directive,
	}, nil
}

// Handle is a bound (credential, directive) pair. Handles are owned by the
// call site that acquired them and are not reused across invocations.
type Handle struct {
	client    *genai.Client
	model     string
	directive string
}

// Directive returns the behavioral directive this handle is bound to.
func (h *Handle) Directive() string {
	return h.directive
}

// Generate submits the prompt plus optional binary documents and returns
// the model's text response. Service-level failures are returned as a
// *CallError so the orchestrator can surface them without retrying.
func (h *Handle) Generate(ctx context.Context, prompt string, docs []core.Document) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, doc := range docs {
		parts = append(parts, genai.NewPartFromBytes(doc.Data, doc.MediaType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{}
	if h.directive != "" {
		cfg.SystemInstruction = genai.NewContentFromText(h.directive, genai.RoleUser)
	}

	resp, err := h.client.Models.GenerateContent(ctx, h.model, contents, cfg)
	if err != nil {
		return "", &CallError{Model: h.model, Err: err}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &CallError{Model: h.model, Message: "empty response"}
	}
	return text, nil
}
