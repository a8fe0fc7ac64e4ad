package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pvlkh/rostrum/internal/core"
	"github.com/pvlkh/rostrum/internal/transcript"
	"github.com/pvlkh/rostrum/internal/vault"
)

// scriptedCaller returns canned responses keyed by a substring of the
// directive it was acquired for.
type scriptedCaller struct {
	directive string
	selector  *fakeSelector
}

func (c *scriptedCaller) Generate(ctx context.Context, prompt string, docs []core.Document) (string, error) {
	c.selector.prompts = append(c.selector.prompts, prompt)
	c.selector.docCounts = append(c.selector.docCounts, len(docs))

	if c.selector.failOn != "" && strings.Contains(c.directive, c.selector.failOn) {
		return "", errors.New("remote rejected request")
	}
	return fmt.Sprintf("reply-to[%s]", prompt), nil
}

// fakeSelector hands out scripted callers and records every acquire.
type fakeSelector struct {
	directives []string
	prompts    []string
	docCounts  []int

	acquireErr error  // returned from every Acquire when set
	failOn     string // directive substring whose Generate fails
}

func (s *fakeSelector) Acquire(ctx context.Context, directive, manualKey string) (vault.Caller, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.directives = append(s.directives, directive)
	return &scriptedCaller{directive: directive, selector: s}, nil
}

func roles(entries []core.Entry) []core.Role {
	out := make([]core.Role, len(entries))
	for i, e := range entries {
		out[i] = e.Role
	}
	return out
}

func TestAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("QuestionAndAnswer", func(t *testing.T) {
		sel := &fakeSelector{}
		eng := New(sel, nil)
		sess := transcript.NewSession()

		entry, err := eng.Ask(ctx, sess, "What is entropy?")
		if err != nil {
			t.Fatalf("ask failed: %v", err)
		}
		if entry.Role != core.RoleAssistant {
			t.Errorf("expected assistant entry, got %s", entry.Role)
		}

		entries := sess.Transcript().Entries()
		if len(entries) != 2 {
			t.Fatalf("expected exactly 2 entries, got %d", len(entries))
		}
		if entries[0].Role != core.RoleUser || entries[0].Content != "What is entropy?" {
			t.Errorf("unexpected user entry: %+v", entries[0])
		}
		if entries[1].Role != core.RoleAssistant {
			t.Errorf("unexpected assistant entry: %+v", entries[1])
		}

		// The research directive must be bound at acquire time.
		if len(sel.directives) != 1 || !strings.Contains(sel.directives[0], "PhD Researcher") {
			t.Errorf("unexpected directives: %v", sel.directives)
		}
	})

	t.Run("AttachesSessionDocuments", func(t *testing.T) {
		sel := &fakeSelector{}
		eng := New(sel, nil)
		sess := transcript.NewSession()
		sess.AddDocument(core.Document{Name: "a.pdf", MediaType: "application/pdf", Data: []byte("x")})
		sess.AddDocument(core.Document{Name: "b.png", MediaType: "image/png", Data: []byte("y")})

		if _, err := eng.Ask(ctx, sess, "Summarize"); err != nil {
			t.Fatalf("ask failed: %v", err)
		}
		if len(sel.docCounts) != 1 || sel.docCounts[0] != 2 {
			t.Errorf("expected 2 documents submitted, got %v", sel.docCounts)
		}
	})

	t.Run("ExhaustedLeavesOnlyUserEntry", func(t *testing.T) {
		sel := &fakeSelector{acquireErr: &vault.ExhaustedError{}}
		eng := New(sel, nil)
		sess := transcript.NewSession()

		_, err := eng.Ask(ctx, sess, "What is entropy?")
		if !vault.IsExhausted(err) {
			t.Fatalf("expected ExhaustedError, got %v", err)
		}

		entries := sess.Transcript().Entries()
		if len(entries) != 1 || entries[0].Role != core.RoleUser {
			t.Errorf("transcript should hold only the user entry, got %v", roles(entries))
		}
	})

	t.Run("RemoteFailureAppendsNothing", func(t *testing.T) {
		sel := &fakeSelector{failOn: "PhD"}
		eng := New(sel, nil)
		sess := transcript.NewSession()

		_, err := eng.Ask(ctx, sess, "What is entropy?")
		if err == nil {
			t.Fatal("expected remote failure")
		}
		entries := sess.Transcript().Entries()
		if len(entries) != 1 {
			t.Errorf("no partial assistant entry may be appended, got %v", roles(entries))
		}
	})

	t.Run("BusySessionRejected", func(t *testing.T) {
		sel := &fakeSelector{}
		eng := New(sel, nil)
		sess := transcript.NewSession()
		sess.Begin()

		_, err := eng.Ask(ctx, sess, "question")
		if !errors.Is(err, ErrSessionBusy) {
			t.Fatalf("expected ErrSessionBusy, got %v", err)
		}
	})

	t.Run("UnknownPersona", func(t *testing.T) {
		eng := New(&fakeSelector{}, nil)
		sess := transcript.NewSession()

		if _, err := eng.AskAs(ctx, sess, "q", "missing"); err == nil {
			t.Fatal("expected error for unknown persona")
		}
		if sess.Transcript().Len() != 0 {
			t.Error("nothing should be appended for an unresolvable persona")
		}
	})
}

func TestRunDebate(t *testing.T) {
	ctx := context.Background()

	t.Run("FullSequence", func(t *testing.T) {
		sel := &fakeSelector{}
		eng := New(sel, nil)
		sess := transcript.NewSession()

		var callbackRoles []core.Role
		result, err := eng.RunDebate(ctx, sess, "Is string theory falsifiable?", func(step DebateStep) {
			callbackRoles = append(callbackRoles, step.Role)
		})
		if err != nil {
			t.Fatalf("debate failed: %v", err)
		}
		if !result.Completed() {
			t.Fatalf("debate did not complete: %v", result.Err)
		}

		// Exactly four entries, in order: user, theorist, applied, verdict.
		entries := sess.Transcript().Entries()
		want := []core.Role{core.RoleUser, core.RoleTheorist, core.RoleApplied, core.RoleVerdict}
		got := roles(entries)
		if len(got) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("entry %d: expected %s, got %s", i, want[i], got[i])
			}
		}

		// Each step acquires its own handle with its own directive.
		if len(sel.directives) != 3 {
			t.Fatalf("expected 3 acquires, got %d", len(sel.directives))
		}
		for i, fragment := range []string{"Theorist", "Applied Scientist", "Head Researcher"} {
			if !strings.Contains(sel.directives[i], fragment) {
				t.Errorf("acquire %d: directive %q missing %q", i, sel.directives[i], fragment)
			}
		}

		// Prompt threading: step 2's prompt contains the theorist response
		// verbatim, step 3's prompt contains both prior responses verbatim.
		theorist := result.Steps[0].Response
		applied := result.Steps[1].Response
		if !strings.Contains(result.Steps[1].Prompt, theorist) {
			t.Error("applied prompt missing theorist response")
		}
		if !strings.HasPrefix(result.Steps[1].Prompt, "Practical view: Is string theory falsifiable?") {
			t.Errorf("unexpected applied prompt: %s", result.Steps[1].Prompt)
		}
		if !strings.Contains(result.Steps[2].Prompt, theorist) || !strings.Contains(result.Steps[2].Prompt, applied) {
			t.Error("verdict prompt missing prior responses")
		}
		if result.Steps[0].Prompt != "Theoretical view: Is string theory falsifiable?" {
			t.Errorf("unexpected theorist prompt: %s", result.Steps[0].Prompt)
		}

		if len(callbackRoles) != 3 {
			t.Errorf("expected 3 callbacks, got %d", len(callbackRoles))
		}
	})

	t.Run("AppliedFailureShortCircuits", func(t *testing.T) {
		sel := &fakeSelector{failOn: "Applied Scientist"}
		eng := New(sel, nil)
		sess := transcript.NewSession()

		result, err := eng.RunDebate(ctx, sess, "topic", nil)
		if err != nil {
			t.Fatalf("unexpected engine error: %v", err)
		}
		if result.Completed() {
			t.Fatal("debate should not complete")
		}
		if result.FailedRole != core.RoleApplied {
			t.Errorf("expected applied to fail, got %s", result.FailedRole)
		}

		// Transcript holds exactly the user entry and the theorist entry;
		// no verdict entry is ever appended for this topic.
		got := roles(sess.Transcript().Entries())
		want := []core.Role{core.RoleUser, core.RoleTheorist}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("ExhaustedVaultKeepsUserEntry", func(t *testing.T) {
		sel := &fakeSelector{acquireErr: &vault.ExhaustedError{}}
		eng := New(sel, nil)
		sess := transcript.NewSession()

		result, err := eng.RunDebate(ctx, sess, "topic", nil)
		if err != nil {
			t.Fatalf("unexpected engine error: %v", err)
		}
		if result.FailedRole != core.RoleTheorist {
			t.Errorf("expected theorist step to fail, got %s", result.FailedRole)
		}
		if !vault.IsExhausted(result.Err) {
			t.Errorf("expected ExhaustedError, got %v", result.Err)
		}

		got := roles(sess.Transcript().Entries())
		if len(got) != 1 || got[0] != core.RoleUser {
			t.Errorf("user entry must never be retracted, got %v", got)
		}
	})

	t.Run("BusySessionRejected", func(t *testing.T) {
		eng := New(&fakeSelector{}, nil)
		sess := transcript.NewSession()
		sess.Begin()

		_, err := eng.RunDebate(ctx, sess, "topic", nil)
		if !errors.Is(err, ErrSessionBusy) {
			t.Fatalf("expected ErrSessionBusy, got %v", err)
		}
		if sess.Transcript().Len() != 0 {
			t.Error("busy rejection must not append the user entry")
		}
	})
}
