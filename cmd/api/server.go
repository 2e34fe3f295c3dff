package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moatrack/auth"
	"moatrack/export"
	"moatrack/record"
)

type ctxKey string

const ctxKeyUserID ctxKey = "userID"

// recordService is the slice of record.Service the handlers need.
type recordService interface {
	Submit(ctx context.Context, params record.SubmitParams) (string, error)
	ToggleStatus(ctx context.Context, id string, status record.Status) error
	Delete(ctx context.Context, id string) error
}

// Server wires the HTTP surface to the domain services.
type Server struct {
	recordService recordService
	recordStore   recordStore
	authService   authService
}

// recordStore is the read side the list, export, and stream handlers use.
type recordStore interface {
	FetchAll(ctx context.Context) ([]record.Record, error)
	FetchByStatus(ctx context.Context, status record.Status) ([]record.Record, error)
	Subscribe(ctx context.Context) (<-chan []record.Record, func(), error)
}

type authService interface {
	Login(ctx context.Context, email, password string) (string, error)
	VerifyToken(token string) (string, error)
}

// Routes builds the full handler tree. Everything except login requires a
// valid session token.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/records", s.requireAuth(s.handleRecords))
	mux.HandleFunc("/api/records/", s.requireAuth(s.handleRecordDetail))
	mux.HandleFunc("/api/duplicates", s.requireAuth(s.handleDuplicates))
	mux.HandleFunc("/api/export", s.requireAuth(s.handleExport))
	mux.HandleFunc("/api/stream", s.requireAuth(s.handleStream))
	return mux
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		subject, err := s.authService.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUserID, subject)))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// EventSource cannot set headers, so the stream endpoint accepts the
	// token as a query parameter.
	return r.URL.Query().Get("token")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.internalError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListRecords(w, r)
	case http.MethodPost:
		s.handleSubmit(w, r, "")
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		records []record.Record
		err     error
	)
	if status := q.Get("status"); status != "" {
		st := record.Status(status)
		if st != record.StatusPending && st != record.StatusCompleted {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", status))
			return
		}
		records, err = s.recordStore.FetchByStatus(r.Context(), st)
	} else {
		records, err = s.recordStore.FetchAll(r.Context())
	}
	if err != nil {
		s.internalError(w, "list records", err)
		return
	}

	filter := record.ListFilter{
		Search: q.Get("search"),
		Type:   record.AgreementType(q.Get("type")),
	}
	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid year %q", y))
			return
		}
		filter.Year = year
	}

	// The year facet reflects the fetched set, not the filtered page.
	years := record.Years(records)
	filtered := record.Filter(records, filter)

	items := make([]recordResponse, len(filtered))
	for i := range filtered {
		items[i] = toRecordResponse(&filtered[i])
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: len(items), Years: years})
}

func (s *Server) handleRecordDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "missing record id")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/status"); ok {
		s.handleToggleStatus(w, r, id)
		return
	}
	if strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPatch, http.MethodPut:
		s.handleSubmit(w, r, rest)
	case http.MethodDelete:
		s.handleDelete(w, r, rest)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// recordRequest is one submission form. Milestones may be RFC3339 strings or
// {"date","time"} pairs; a milestone missing from the map is cleared.
type recordRequest struct {
	CompanyName   string   `json:"companyName"`
	AgreementType string   `json:"agreementType"`
	Address       string   `json:"address"`
	ContactPerson string   `json:"contactPerson"`
	Designation   string   `json:"designation"`
	EmailAddress  string   `json:"emailAddress"`
	ContactNumber string   `json:"contactNumber"`
	StudentNames  []string `json:"studentNames"`
	StudentCourse string   `json:"studentCourse"`
	Remarks       string   `json:"remarks"`

	Milestones map[string]record.PartialDateTime `json:"milestones"`

	Override bool `json:"override"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, id string) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	milestones := make(map[record.Milestone]*time.Time, len(req.Milestones))
	for _, m := range record.Milestones() {
		p, ok := req.Milestones[string(m)]
		if !ok || p.IsZero() {
			continue
		}
		ts, err := p.Combine(time.Now)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("milestone %s: %v", m, err))
			return
		}
		milestones[m] = ts
	}

	newID, err := s.recordService.Submit(r.Context(), record.SubmitParams{
		RecordID:      id,
		CompanyName:   req.CompanyName,
		AgreementType: record.AgreementType(req.AgreementType),
		Address:       req.Address,
		ContactPerson: req.ContactPerson,
		Designation:   req.Designation,
		EmailAddress:  req.EmailAddress,
		ContactNumber: req.ContactNumber,
		StudentNames:  req.StudentNames,
		StudentCourse: req.StudentCourse,
		Remarks:       req.Remarks,
		Milestones:    milestones,
		Override:      req.Override,
	})
	if err != nil {
		s.writeRecordError(w, err)
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"id": newID})
}

type toggleRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.recordService.ToggleStatus(r.Context(), id, record.Status(req.Status)); err != nil {
		s.writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.recordService.Delete(r.Context(), id); err != nil {
		s.writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.recordStore.FetchAll(r.Context())
	if err != nil {
		s.internalError(w, "duplicate report", err)
		return
	}

	groups := record.DuplicateGroups(records)
	payload := struct {
		Groups [][]recordResponse `json:"groups"`
	}{Groups: make([][]recordResponse, len(groups))}
	for i, group := range groups {
		payload.Groups[i] = make([]recordResponse, len(group))
		for j := range group {
			payload.Groups[i][j] = toRecordResponse(&group[j])
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	mode := export.Mode(r.URL.Query().Get("mode"))
	records, err := s.recordStore.FetchAll(r.Context())
	if err != nil {
		s.internalError(w, "export", err)
		return
	}

	f, err := export.Workbook(records, mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="moa-records.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Printf("export: stream workbook: %v", err)
	}
}

// handleStream serves the live snapshot feed as server-sent events. Every
// event carries the complete record set; the subscription is torn down when
// the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	feed, release, err := s.recordStore.Subscribe(r.Context())
	if err != nil {
		s.internalError(w, "subscribe", err)
		return
	}
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-feed:
			if !ok {
				return
			}
			items := make([]recordResponse, len(snapshot))
			for i := range snapshot {
				items[i] = toRecordResponse(&snapshot[i])
			}
			data, err := json.Marshal(listResponse{Items: items, Total: len(items)})
			if err != nil {
				log.Printf("stream: encode snapshot: %v", err)
				return
			}
			fmt.Fprintf(w, "event: records\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) writeRecordError(w http.ResponseWriter, err error) {
	var dup *record.DuplicateError
	switch {
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, duplicateResponse{
			Error: "possible duplicate entry",
			Match: matchResponse{
				ID:          dup.Match.Ref.ID,
				CompanyName: dup.Match.Ref.CompanyName,
				Score:       dup.Match.Score,
				Kind:        string(dup.Match.Kind),
			},
		})
	case errors.Is(err, record.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, record.ErrNotReadyForCompletion):
		writeError(w, http.StatusConflict, "record has not reached the final milestone")
	case errors.Is(err, record.ErrCompanyNameRequired),
		errors.Is(err, record.ErrInvalidAgreementType),
		errors.Is(err, record.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.internalError(w, "record operation", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
