// Package handlers provides HTTP handlers for the web interface.
package handlers

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pvlkh/rostrum/internal/core"
	"github.com/pvlkh/rostrum/internal/engine"
	"github.com/pvlkh/rostrum/internal/export"
	"github.com/pvlkh/rostrum/internal/gemini"
	"github.com/pvlkh/rostrum/internal/persona"
	"github.com/pvlkh/rostrum/internal/storage"
	"github.com/pvlkh/rostrum/internal/transcript"
	"github.com/pvlkh/rostrum/internal/vault"
)

//go:embed static/index.html
var staticFS embed.FS

// maxUploadBytes caps a single document upload request.
const maxUploadBytes = 32 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	engine   *engine.Engine
	pool     *vault.Pool
	storage  storage.Storage
	sessions *transcript.Manager
}

// New creates a new Handler.
func New(eng *engine.Engine, pool *vault.Pool, store storage.Storage, sessions *transcript.Manager) *Handler {
	return &Handler{
		engine:   eng,
		pool:     pool,
		storage:  store,
		sessions: sessions,
	}
}

// Router builds the HTTP router with all routes registered.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/vault", h.handleVaultStatus)
		r.Get("/personas", h.handleListPersonas)
		r.Get("/exports", h.handleListExports)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.handleCreateSession)
			r.Get("/", h.handleListSessions)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetSession)
				r.Delete("/", h.handleDeleteSession)
				r.Post("/documents", h.handleUploadDocuments)
				r.Get("/documents", h.handleListDocuments)
				r.Post("/key", h.handleSetManualKey)
				r.Post("/ask", h.handleAsk)
				r.Post("/debate", h.handleDebate)
				r.Get("/debate/stream", h.handleDebateStream)
				r.Get("/export", h.handleExport)
			})
		})
	})

	r.Get("/", h.handleIndex)

	return r
}

// handleIndex serves the embedded HTML shell.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		slog.Error("Failed to read index", "error", err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// handleVaultStatus reports the credential pool state so the UI can show
// "Vault Active: N keys" or prompt for a manual key.
func (h *Handler) handleVaultStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"configured": h.pool.Configured(),
		"keys":       h.pool.Size(),
	})
}

// handleListPersonas returns builtin personas followed by stored custom ones.
func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas := persona.List()

	if h.storage != nil {
		stored, err := h.storage.ListPersonas()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}
		for _, p := range stored {
			if persona.IsBuiltin(p.ID) {
				continue
			}
			personas = append(personas, persona.Persona{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Directive:   p.Directive,
			})
		}
	}

	respondJSON(w, http.StatusOK, personas)
}

// handleListExports returns the recent export log.
func (h *Handler) handleListExports(w http.ResponseWriter, r *http.Request) {
	records, err := h.storage.ListExports(50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	if records == nil {
		records = []*storage.ExportRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()
	slog.Info("Session created", "id", sess.ID)
	respondJSON(w, http.StatusCreated, sess.Summarize())
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessions.List())
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session":   sess.Summarize(),
		"documents": sess.DocumentInfos(),
		"entries":   sess.Transcript().Entries(),
	})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.sessions.Delete(id)
	slog.Info("Session ended", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadDocuments accepts multipart file uploads into the session
// library. The part's declared content type tags each document.
func (h *Handler) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	var added []core.DocumentInfo
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("failed to open upload: %v", err))
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				respondError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("failed to read upload: %v", err))
				return
			}

			mediaType := header.Header.Get("Content-Type")
			if mediaType == "" {
				mediaType = "application/octet-stream"
			}

			doc := core.Document{
				Name:      header.Filename,
				MediaType: mediaType,
				Data:      data,
			}
			sess.AddDocument(doc)
			added = append(added, doc.Info())
			slog.Debug("Document uploaded", "session", sess.ID, "name", doc.Name, "media_type", doc.MediaType, "size", len(data))
		}
	}

	respondJSON(w, http.StatusCreated, added)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.DocumentInfos())
}

// handleSetManualKey stores the session's ad hoc credential, used as a pool
// of one when the configured vault is absent or exhausted.
func (h *Handler) handleSetManualKey(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	sess.SetManualKey(strings.TrimSpace(req.Key))
	slog.Info("Manual key updated", "session", sess.ID, "set", req.Key != "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Question string `json:"question"`
		Persona  string `json:"persona,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "question is required")
		return
	}

	var entry *core.Entry
	var err error
	if req.Persona != "" {
		entry, err = h.engine.AskAs(r.Context(), sess, req.Question, req.Persona)
	} else {
		entry, err = h.engine.Ask(r.Context(), sess, req.Question)
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDebate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "topic is required")
		return
	}

	result, err := h.engine.RunDebate(r.Context(), sess, req.Topic, nil)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	resp := map[string]any{
		"topic":     result.Topic,
		"steps":     result.Steps,
		"completed": result.Completed(),
	}
	if result.Err != nil {
		resp["failed_role"] = result.FailedRole
		resp["error"] = result.Err.Error()
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleExport streams the session transcript in the requested format and
// records the export in the audit log.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	format := export.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = export.FormatMarkdown
	}

	exporter, err := export.GetExporter(format)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	snap := export.SnapshotSession(sess)
	filename := export.GenerateFilename(snap, exporter.FileExtension())

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	switch format {
	case export.FormatPDF:
		w.Header().Set("Content-Type", "application/pdf")
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}

	if err := exporter.Export(snap, w); err != nil {
		slog.Error("Export failed", "session", sess.ID, "format", format, "error", err)
		return
	}

	if h.storage != nil {
		rec := &storage.ExportRecord{
			ID:        core.GenerateID(),
			SessionID: sess.ID,
			Format:    string(format),
			Filename:  filename,
		}
		if err := h.storage.RecordExport(rec); err != nil {
			slog.Error("Failed to record export", "session", sess.ID, "error", err)
		}
	}
}

// session resolves the {id} path parameter, writing a 404 on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*transcript.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", err.Error())
		return nil, false
	}
	return sess, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{
		"code":  code,
		"error": message,
	})
}

// respondEngineError maps the error taxonomy onto HTTP statuses: vault
// failures are service-unavailable, remote rejections are bad-gateway, a
// busy session is a conflict. The prior transcript is always intact; the
// client may retry with a new submission.
func respondEngineError(w http.ResponseWriter, err error) {
	var callErr *gemini.CallError
	switch {
	case errors.Is(err, engine.ErrSessionBusy):
		respondError(w, http.StatusConflict, "session_busy", err.Error())
	case errors.Is(err, vault.ErrNoPoolConfigured):
		respondError(w, http.StatusServiceUnavailable, "no_pool_configured", err.Error())
	case vault.IsExhausted(err):
		respondError(w, http.StatusServiceUnavailable, "exhausted", err.Error())
	case errors.As(err, &callErr):
		respondError(w, http.StatusBadGateway, "remote_call_failed", err.Error())
	default:
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}
