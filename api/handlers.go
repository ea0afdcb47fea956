package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/avrlang/rpnc/cerr"
	"github.com/avrlang/rpnc/compile"
	"github.com/avrlang/rpnc/encoder"
	"github.com/avrlang/rpnc/tacopt"
	"github.com/avrlang/rpnc/tools"
)

// CompileRequest is the body of POST /api/v1/compile (spec §3.2).
type CompileRequest struct {
	Source string `json:"source"`
	Level  string `json:"level"`
	Baud   int    `json:"baud"`
	Debug  bool   `json:"debug"`
}

// DiagnosticJSON is the wire shape of a cerr.Diagnostic.
type DiagnosticJSON struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Warning bool   `json:"warning"`
}

// CompileResponse is the body returned by POST /api/v1/compile.
type CompileResponse struct {
	TAC          string           `json:"tac"`
	OptimizedTAC string           `json:"optimizedTac"`
	Assembly     string           `json:"assembly"`
	Diagnostics  []DiagnosticJSON `json:"diagnostics"`
}

// handleCompile compiles the full source text submitted in the
// request body line by line, publishing a lexed event for every code
// line, parsed/typed/tac events for each line that compiles, and one
// optimized and one codegen event (line 0) for the whole request, and
// returns TAC/optimized-TAC/assembly text
// plus accumulated diagnostics (spec §3.2).
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	level, err := tacopt.ParseLevel(req.Level)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Baud == 0 {
		req.Baud = 9600
	}

	session := compile.NewSession()
	var diagnostics []DiagnosticJSON

	for i, raw := range strings.Split(req.Source, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		s.broadcaster.Publish(Event{Phase: PhaseLexed, Line: lineNo})

		result, diag := session.CompileLine(lineNo, raw)
		if diag != nil {
			diagnostics = append(diagnostics, toDiagnosticJSON(diag))
			continue
		}

		s.broadcaster.Publish(Event{Phase: PhaseParsed, Line: lineNo})
		s.broadcaster.Publish(Event{Phase: PhaseTyped, Line: lineNo, Detail: result.Type.String()})
		s.broadcaster.Publish(Event{Phase: PhaseTAC, Line: lineNo})

		for _, warn := range result.Warnings {
			diagnostics = append(diagnostics, toDiagnosticJSON(warn))
		}
	}

	optimized := session.Optimize(level)
	s.broadcaster.Publish(Event{Phase: PhaseOptimized})

	target := encoder.Target{Baud: req.Baud, Debug: req.Debug}
	asm, genErr := session.Generate(target)
	if genErr != nil {
		writeError(w, http.StatusInternalServerError, genErr.Error())
		return
	}
	s.broadcaster.Publish(Event{Phase: PhaseCodegen})

	resp := CompileResponse{
		TAC:          tools.FormatTAC(session.TAC()),
		OptimizedTAC: tools.FormatTAC(optimized),
		Assembly:     tools.FormatAssembly(asm),
		Diagnostics:  diagnostics,
	}
	writeJSON(w, http.StatusOK, resp)
}

func toDiagnosticJSON(d *cerr.Diagnostic) DiagnosticJSON {
	return DiagnosticJSON{
		Kind:    d.Kind.String(),
		Line:    d.Pos.Line,
		Message: d.Message,
		Warning: d.Warning,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
