// Package engine orchestrates document Q&A and debate workflows.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pvlkh/rostrum/internal/core"
	"github.com/pvlkh/rostrum/internal/persona"
	"github.com/pvlkh/rostrum/internal/storage"
	"github.com/pvlkh/rostrum/internal/transcript"
	"github.com/pvlkh/rostrum/internal/vault"
)

// Selector yields a client handle bound to a behavioral directive. A fresh
// handle is acquired before every model invocation; handles are never reused
// across debate steps so traffic spreads over the credential pool.
type Selector interface {
	Acquire(ctx context.Context, directive, manualKey string) (vault.Caller, error)
}

// ErrSessionBusy is returned when a submission arrives while another action
// on the same session is still in flight. Submissions are strictly
// sequential per session; they are rejected, not queued.
var ErrSessionBusy = errors.New("session is busy with another submission")

// Engine drives the two conversational workflows.
type Engine struct {
	selector Selector
	store    storage.Storage
}

// New creates an engine. store may be nil; custom personas are then
// unavailable and only builtins resolve.
func New(selector Selector, store storage.Storage) *Engine {
	return &Engine{
		selector: selector,
		store:    store,
	}
}

// getPersona resolves a persona by ID from builtins or storage.
func (e *Engine) getPersona(id string) *persona.Persona {
	// Check builtin first
	if p := persona.Get(id); p != nil {
		return p
	}

	if e.store == nil {
		return nil
	}
	stored, err := e.store.GetPersona(id)
	if err != nil || stored == nil {
		return nil
	}
	return &persona.Persona{
		ID:          stored.ID,
		Name:        stored.Name,
		Description: stored.Description,
		Directive:   stored.Directive,
	}
}

// Ask runs one document-mode exchange: the question is appended as a user
// entry, a handle is acquired under the research directive, and the
// question plus the session's uploaded documents are submitted.
//
// The user entry stays in the transcript no matter what fails afterwards.
// On a vault or remote failure the error is returned for inline rendering
// and no assistant entry is appended.
func (e *Engine) Ask(ctx context.Context, sess *transcript.Session, question string) (*core.Entry, error) {
	if !sess.Begin() {
		return nil, ErrSessionBusy
	}
	defer sess.End()

	return e.ask(ctx, sess, question, persona.Researcher)
}

// AskAs is Ask with a custom persona, for operators who have defined their
// own research directives.
func (e *Engine) AskAs(ctx context.Context, sess *transcript.Session, question, personaID string) (*core.Entry, error) {
	if !sess.Begin() {
		return nil, ErrSessionBusy
	}
	defer sess.End()

	return e.ask(ctx, sess, question, personaID)
}

func (e *Engine) ask(ctx context.Context, sess *transcript.Session, question, personaID string) (*core.Entry, error) {
	p := e.getPersona(personaID)
	if p == nil {
		return nil, fmt.Errorf("unknown persona: %s", personaID)
	}

	sess.Transcript().Append(core.RoleUser, question)

	handle, err := e.selector.Acquire(ctx, p.Directive, sess.ManualKey())
	if err != nil {
		slog.Warn("Failed to acquire credential", "session", sess.ID, "error", err)
		return nil, err
	}

	docs := sess.Documents()
	slog.Debug("Submitting question", "session", sess.ID, "documents", len(docs))
	response, err := handle.Generate(ctx, question, docs)
	if err != nil {
		slog.Warn("Remote call failed", "session", sess.ID, "error", err)
		return nil, err
	}

	entry := sess.Transcript().Append(core.RoleAssistant, response)
	return &entry, nil
}

// DebateStep is a transient record of one completed debate turn. Its
// response is folded into the transcript and threaded as context into the
// next step's prompt.
type DebateStep struct {
	Role     core.Role  `json:"role"`
	Prompt   string     `json:"prompt"`
	Response string     `json:"response"`
	Entry    core.Entry `json:"entry"`
}

// DebateResult reports the outcome of one debate sequence.
type DebateResult struct {
	Topic      string       `json:"topic"`
	UserEntry  core.Entry   `json:"user_entry"`
	Steps      []DebateStep `json:"steps"`
	FailedRole core.Role    `json:"failed_role,omitempty"`
	Err        error        `json:"-"`
}

// Completed reports whether all three steps succeeded.
func (r *DebateResult) Completed() bool {
	return r.Err == nil && len(r.Steps) == len(core.DebateRoles)
}

// StepCallback is called after each debate step completes.
type StepCallback func(step DebateStep)

// RunDebate executes the fixed three-step sequence for a topic: Theorist,
// Applied, Verdict. Each step acquires its own handle. Failure of step N
// aborts steps N+1 onward; entries appended by earlier steps remain, and
// the topic's user entry is never retracted. The failure is reported in
// the result, never raised past the engine.
func (e *Engine) RunDebate(ctx context.Context, sess *transcript.Session, topic string, callback StepCallback) (*DebateResult, error) {
	if !sess.Begin() {
		return nil, ErrSessionBusy
	}
	defer sess.End()

	result := &DebateResult{
		Topic:     topic,
		UserEntry: sess.Transcript().Append(core.RoleUser, topic),
	}

	var resp1, resp2 string

	for _, role := range core.DebateRoles {
		var prompt string
		switch role {
		case core.RoleTheorist:
			prompt = fmt.Sprintf("Theoretical view: %s", topic)
		case core.RoleApplied:
			prompt = fmt.Sprintf("Practical view: %s. Critique: %s", topic, resp1)
		case core.RoleVerdict:
			prompt = fmt.Sprintf("Theorist: %s. Applied: %s. Verdict?", resp1, resp2)
		}

		step, err := e.executeStep(ctx, sess, role, prompt)
		if err != nil {
			slog.Warn("Debate step failed", "session", sess.ID, "role", role, "error", err)
			result.FailedRole = role
			result.Err = err
			return result, nil
		}

		result.Steps = append(result.Steps, step)
		switch role {
		case core.RoleTheorist:
			resp1 = step.Response
		case core.RoleApplied:
			resp2 = step.Response
		}

		if callback != nil {
			callback(step)
		}
	}

	return result, nil
}

// executeStep acquires a fresh handle for the step's persona, submits the
// prompt, and appends the tagged entry.
func (e *Engine) executeStep(ctx context.Context, sess *transcript.Session, role core.Role, prompt string) (DebateStep, error) {
	p := e.getPersona(string(role))
	if p == nil {
		return DebateStep{}, fmt.Errorf("unknown persona: %s", role)
	}

	handle, err := e.selector.Acquire(ctx, p.Directive, sess.ManualKey())
	if err != nil {
		return DebateStep{}, err
	}

	response, err := handle.Generate(ctx, prompt, nil)
	if err != nil {
		return DebateStep{}, err
	}

	entry := sess.Transcript().Append(role, response)
	slog.Debug("Debate step completed", "session", sess.ID, "role", role, "entry", entry.ID)

	return DebateStep{
		Role:     role,
		Prompt:   prompt,
		Response: response,
		Entry:    entry,
	}, nil
}
