package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"coverflow/auth"
	"coverflow/config"
	"coverflow/delivery"
	"coverflow/form"
	"coverflow/mapping"
	"coverflow/record"
	"coverflow/validate"
)

// Server hosts the intake and cover-sheet endpoints consumed by the form
// wizard.
type Server struct {
	validator    *validate.Engine
	orchestrator *delivery.Orchestrator
	queue        *delivery.Queue
	records      record.API
	auth         *auth.Service
	cfg          config.Config
	log          *zap.Logger
}

type loginRequest struct {
	Client string `json:"client"`
	APIKey string `json:"apiKey"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type submitRequest struct {
	TableID   string                   `json:"tableId"`
	RecordID  string                   `json:"recordId"`
	AgentRole string                   `json:"agentRole"`
	SendEmail bool                     `json:"sendEmail"`
	Data      form.TransactionFormData `json:"data"`
}

type submitResponse struct {
	Success            bool                `json:"success"`
	RecordID           string              `json:"recordId,omitempty"`
	Filename           string              `json:"filename,omitempty"`
	Path               string              `json:"path,omitempty"`
	EmailSent          *bool               `json:"emailSent,omitempty"`
	EmailError         string              `json:"emailError,omitempty"`
	ValidationErrors   map[string][]string `json:"validationErrors,omitempty"`
	ValidationWarnings map[string][]string `json:"validationWarnings,omitempty"`
	Error              string              `json:"error,omitempty"`
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/transactions", s.requireToken(s.handleSubmit))
	mux.HandleFunc("/api/coversheet", s.requireToken(s.handleCoverSheet))
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.auth.Enabled() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "auth disabled"})
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	token, err := s.auth.Login(req.Client, req.APIKey)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredential) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credential"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// requireToken wraps a handler with bearer-token verification when auth is
// configured.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Enabled() {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}
		if _, err := s.auth.VerifyToken(tokenString); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next(w, r)
	}
}

// handleSubmit is the intake path: validate, create the record, enqueue
// generation, acknowledge. The submitter never waits on document delivery;
// background outcomes surface only through logs and the alert mail.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := s.decodeSubmission(w, r)
	if !ok {
		return
	}

	rep := s.validator.ValidateFormReport(&req.Data)
	if !rep.Submittable() {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success:          false,
			ValidationErrors: rep.Errors,
		})
		return
	}

	recordID := req.RecordID
	if recordID == "" && s.records != nil && s.cfg.Record.Check() == nil {
		table := req.TableID
		if table == "" {
			table = s.cfg.Record.Table
		}
		id, err := s.records.Create(r.Context(), table, mapping.RecordFields(&req.Data))
		if err != nil {
			s.log.Error("record creation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, submitResponse{
				Success: false,
				Error:   "record creation failed",
			})
			return
		}
		recordID = id
	}

	job := delivery.Job{
		TableID:   req.TableID,
		RecordID:  recordID,
		SendEmail: req.SendEmail,
		Form:      req.Data,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.log.Error("enqueue failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, submitResponse{
			Success: false,
			Error:   "generation queue is full, retry shortly",
		})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:            true,
		RecordID:           recordID,
		ValidationWarnings: rep.Warnings,
	})
}

// handleCoverSheet runs the pipeline synchronously and reports the composite
// outcome: 400 for validation findings, 200 for success including partial
// delivery, 500 only when no document could be produced.
func (s *Server) handleCoverSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	req, ok := s.decodeSubmission(w, r)
	if !ok {
		return
	}

	job := delivery.Job{
		TableID:   req.TableID,
		RecordID:  req.RecordID,
		SendEmail: req.SendEmail,
		Form:      req.Data,
	}
	res, err := s.orchestrator.Deliver(r.Context(), job)
	if err != nil {
		s.log.Error("cover sheet pipeline failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, submitResponse{
			Success: false,
			Error:   "document generation failed",
		})
		return
	}
	if len(res.ValidationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success:          false,
			ValidationErrors: res.ValidationErrors,
		})
		return
	}

	resp := submitResponse{
		Success:            true,
		RecordID:           req.RecordID,
		Filename:           res.Filename,
		Path:               res.RenderedPath,
		ValidationWarnings: res.ValidationWarnings,
	}
	if req.SendEmail {
		sent := res.EmailSent
		resp.EmailSent = &sent
		if !sent {
			resp.EmailError = firstError(res.Errors, "email")
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeSubmission(w http.ResponseWriter, r *http.Request) (submitRequest, bool) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return req, false
	}
	// agentRole at the top level wins over the nested form value; the
	// wizard sends both and they can drift mid-edit.
	if req.AgentRole != "" {
		req.Data.AgentData.Role = form.AgentRole(req.AgentRole)
	}
	return req, true
}

func firstError(errs []string, stage string) string {
	for _, e := range errs {
		if strings.HasPrefix(e, stage+":") {
			return strings.TrimSpace(strings.TrimPrefix(e, stage+":"))
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
