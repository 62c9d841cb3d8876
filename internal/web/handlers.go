package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"vcpscan/internal/recorder"
	"vcpscan/internal/vcp"
	"vcpscan/pkg/model"
)

// StockResponse bundles everything the pipeline produced for one symbol
type StockResponse struct {
	Symbol   string               `json:"symbol"`
	Setup    *model.VCPSetup      `json:"setup,omitempty"`
	Breakout *model.BreakoutEvent `json:"breakout,omitempty"`
	Plan     *model.TradingPlan   `json:"plan,omitempty"`
	Proof    *model.ProofReport   `json:"proof,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"kind":  vcp.ErrorKind(err),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scanQuery reads the shared scan parameters: symbols (comma list,
// optional) and limit (cap on universe size, optional)
func scanQuery(r *http.Request) (explicit []string, limit int) {
	if raw := r.URL.Query().Get("symbols"); raw != "" {
		explicit = strings.Split(raw, ",")
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	return explicit, limit
}

func (s *Server) runScan(w http.ResponseWriter, r *http.Request) (*model.ScanResult, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed, use POST", http.StatusMethodNotAllowed)
		return nil, false
	}

	explicit, limit := scanQuery(r)
	stocks, err := s.app.ResolveUniverse(r.Context(), explicit, "", limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return nil, false
	}

	log.Printf("[WEB] scan starting: %d symbols", len(stocks))
	result, err := s.app.RunScan(r.Context(), stocks, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return result, true
}

// handleScan runs a synchronous scan and returns every outcome
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runScan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleScanBreakouts runs a scan and returns only the symbols whose
// pivot broke on the latest bar
func (s *Server) handleScanBreakouts(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runScan(w, r)
	if !ok {
		return
	}

	breakouts := make([]model.ScanOutcome, 0)
	for _, o := range result.Outcomes {
		if o.Breakout != nil {
			breakouts = append(breakouts, o)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scan_id":   result.ScanID,
		"scan_time": result.ScanTime,
		"count":     len(breakouts),
		"breakouts": breakouts,
	})
}

// handleScans lists recorded scan summaries, newest first
func (s *Server) handleScans(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	summaries, err := s.app.Recorder.ScanSummaries(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []recorder.ScanSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scans": summaries})
}

// handleStock runs the pipeline for a single symbol:
// GET /api/stock/{symbol} for the full response, or one section via
// /api/stock/{symbol}/vcp, /breakout, /plan, /proof
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/stock/"), "/")
	symbol, section, _ := strings.Cut(path, "/")
	symbol = strings.ToUpper(symbol)
	if symbol == "" || strings.Contains(section, "/") {
		http.Error(w, "usage: /api/stock/{symbol}[/vcp|breakout|plan|proof]", http.StatusBadRequest)
		return
	}

	res, err := s.app.AnalyzeSymbol(r.Context(), symbol)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, vcp.ErrNoPattern):
			status = http.StatusNotFound
		case errors.Is(err, vcp.ErrInsufficientHistory):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, vcp.ErrDataUnavailable):
			status = http.StatusBadGateway
		}
		writeError(w, status, err)
		return
	}

	switch section {
	case "":
		writeJSON(w, http.StatusOK, StockResponse{
			Symbol:   symbol,
			Setup:    res.Setup,
			Breakout: res.Breakout,
			Plan:     res.Plan,
			Proof:    res.Proof,
		})
	case "vcp":
		writeJSON(w, http.StatusOK, res.Setup)
	case "breakout":
		if res.Breakout == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no breakout detected"})
			return
		}
		writeJSON(w, http.StatusOK, res.Breakout)
	case "plan":
		if res.Plan == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no trading plan available"})
			return
		}
		writeJSON(w, http.StatusOK, res.Plan)
	case "proof":
		writeJSON(w, http.StatusOK, res.Proof)
	default:
		http.Error(w, "unknown section: "+section, http.StatusNotFound)
	}
}

// handleSymbols returns the scan universe
func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.app.ResolveUniverse(r.Context(), nil, "", 0)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(stocks),
		"stocks": stocks,
	})
}
