package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dekarrin/dpc/internal/diag"
	"github.com/dekarrin/dpc/internal/ir"
	"github.com/dekarrin/dpc/internal/resolver"
	"github.com/dekarrin/dpc/internal/symtab"
)

type compileRequest struct {
	SourceID string `json:"source_id"`
}

type diagnosticDTO struct {
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
}

type compileResponseDTO struct {
	Success     bool            `json:"success"`
	SourceID    string          `json:"source_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Diagnostics []diagnosticDTO `json:"diagnostics"`
	Labels      []string        `json:"labels"`
}

// handleCompile implements POST /api/v1/compile, binding straight to
// Session.Compile (spec.md §6).
func (s *Service) handleCompile(w http.ResponseWriter, req *http.Request) {
	var body compileRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		errResult(http.StatusBadRequest, "malformed JSON request body").writeTo(w)
		return
	}
	if body.SourceID == "" {
		errResult(http.StatusBadRequest, "source_id is required").writeTo(w)
		return
	}

	uri, err := resolver.CanonicalURI(body.SourceID)
	if err != nil {
		errResult(http.StatusBadRequest, "source_id could not be canonicalized").writeTo(w)
		return
	}

	// Serialize concurrent compiles of the same URI (SPEC_FULL.md §5);
	// internal/session.Session does not do this itself.
	unlock := s.locks.lock(uri)
	defer unlock()

	result, err := s.Session.Compile(req.Context(), body.SourceID)
	if err != nil {
		s.Log.Printf("ERROR [%s] compile %s: %s", requestIDFrom(req.Context()), body.SourceID, err)
		errResult(http.StatusInternalServerError, "could not compile source").writeTo(w)
		return
	}

	resp := compileResponseDTO{
		Success:     result.Success,
		SourceID:    result.SourceID,
		Timestamp:   result.Timestamp,
		Diagnostics: toDiagnosticDTOs(result.Diagnostics),
		Labels:      labelNames(result.Labels),
	}

	s.Log.Printf("INFO  [%s] compile %s: success=%v diagnostics=%d", requestIDFrom(req.Context()), body.SourceID, result.Success, len(result.Diagnostics))
	ok(resp).writeTo(w)
}

type positionDTO struct {
	SourceID string `json:"source_id"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

type definitionResponseDTO struct {
	Positions []positionDTO `json:"positions"`
}

// handleDefinition implements GET /api/v1/definition?source_id=...&kind=label|variable&name=...,
// binding to Session.FindLabelDefinition / Session.FindVariableDefinition.
func (s *Service) handleDefinition(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	sourceID := q.Get("source_id")
	kind := q.Get("kind")
	name := q.Get("name")

	if sourceID == "" || name == "" {
		errResult(http.StatusBadRequest, "source_id and name are required").writeTo(w)
		return
	}

	var positions []symtab.SymbolPosition
	switch kind {
	case "variable":
		positions = s.Session.FindVariableDefinition(sourceID, name)
	case "", "label":
		positions = s.Session.FindLabelDefinition(sourceID, name)
	default:
		errResult(http.StatusBadRequest, "kind must be \"label\" or \"variable\"").writeTo(w)
		return
	}

	ok(definitionResponseDTO{Positions: toPositionDTOs(positions)}).writeTo(w)
}

func toDiagnosticDTOs(ds []diag.Diagnostic) []diagnosticDTO {
	out := make([]diagnosticDTO, 0, len(ds))
	for _, d := range ds {
		out = append(out, diagnosticDTO{
			Message:  d.Message,
			Line:     d.Line,
			Column:   d.Column,
			Severity: d.Severity.String(),
		})
	}
	return out
}

func toPositionDTOs(ps []symtab.SymbolPosition) []positionDTO {
	out := make([]positionDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, positionDTO{SourceID: p.SourceID, Line: p.Line, Column: p.Column})
	}
	return out
}

func labelNames(ls *ir.LabelSet) []string {
	out := make([]string, 0, len(ls.Labels))
	for name := range ls.Labels {
		out = append(out, name)
	}
	return out
}
