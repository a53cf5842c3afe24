package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/puzzlehive/stats-hub/internal/application/command"
	"github.com/puzzlehive/stats-hub/internal/application/query"
	"github.com/puzzlehive/stats-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "PuzzleHive Stats Hub API",
		"version":     "v1",
		"description": "Record analytics and ranking engine for the PuzzleHive puzzle platform",
		"endpoints": map[string]string{
			"health":           "/health",
			"records":          "/api/v1/records",
			"stats":            "/api/v1/accounts/{id}/stats",
			"daily_stats":      "/api/v1/accounts/{id}/stats/daily",
			"best_records":     "/api/v1/accounts/{id}/records/best",
			"global_ranking":   "/api/v1/rankings/global",
			"personal_ranking": "/api/v1/rankings/personal",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics serves basic server metrics as JSON.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// RECORD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// SubmitRecordRequest is the POST /api/v1/records payload.
type SubmitRecordRequest struct {
	AccountID   string    `json:"account_id"`
	PuzzleType  string    `json:"puzzle_type"`
	Difficulty  string    `json:"difficulty"`
	TimeTaken   int       `json:"time_taken"`
	HintCount   int       `json:"hint_count"`
	CompletedAt time.Time `json:"completed_at,omitempty"` // zero means "now"
}

// handleSubmitRecord handles POST /api/v1/records
func (s *Server) handleSubmitRecord(w http.ResponseWriter, r *http.Request) {
	if s.deps.SubmitRecordHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Record submission not configured")
		return
	}

	var req SubmitRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}
	defer r.Body.Close()

	cmd := command.SubmitRecordCommand{
		AccountID:   req.AccountID,
		PuzzleType:  req.PuzzleType,
		Difficulty:  req.Difficulty,
		TimeTaken:   req.TimeTaken,
		HintCount:   req.HintCount,
		CompletedAt: req.CompletedAt,
	}

	result, err := s.deps.SubmitRecordHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleListRecords handles GET /api/v1/records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListRecordsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Record listing not configured")
		return
	}

	dateFrom, dateTo, err := s.dateRangeParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	maxHints, err := getQueryParamIntPtr(r, "max_hints")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	maxTime, err := getQueryParamIntPtr(r, "max_time")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	q := query.ListRecordsQuery{
		AccountID:  getQueryParam(r, "account_id", ""),
		PuzzleType: getQueryParam(r, "puzzle_type", ""),
		Difficulty: getQueryParam(r, "difficulty", ""),
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		MaxHints:   maxHints,
		MaxTime:    maxTime,
		SortBy:     getQueryParam(r, "sort_by", ""),
		SortOrder:  getQueryParam(r, "sort_order", ""),
		Page:       getQueryParamInt(r, "page", 1),
		Limit:      getQueryParamInt(r, "limit", 20),
	}

	result, err := s.deps.ListRecordsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	meta := &ResponseMeta{
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		HasMore:    result.HasMore,
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// handleDeleteRecord handles DELETE /api/v1/records/{id}
// The acting account comes from the X-Account-ID header, with an account_id
// query parameter fallback.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if s.deps.DeleteRecordHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Record deletion not configured")
		return
	}

	recordID := parsePathInt64(r.PathValue("id"))

	accountID := r.Header.Get("X-Account-ID")
	if accountID == "" {
		accountID = getQueryParam(r, "account_id", "")
	}

	cmd := command.DeleteRecordCommand{
		RecordID:  recordID,
		AccountID: accountID,
	}

	if err := s.deps.DeleteRecordHandler.Handle(r.Context(), cmd); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record_id": recordID,
		"deleted":   true,
	})
}

// handlePurgeAccount handles DELETE /api/v1/accounts/{id}/records
func (s *Server) handlePurgeAccount(w http.ResponseWriter, r *http.Request) {
	if s.deps.PurgeAccountRecordsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Account purge not configured")
		return
	}

	cmd := command.PurgeAccountRecordsCommand{
		AccountID: r.PathValue("id"),
	}

	result, err := s.deps.PurgeAccountRecordsHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStats handles GET /api/v1/accounts/{id}/stats
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStatsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Stats handler not configured")
		return
	}

	dateFrom, dateTo, err := s.dateRangeParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	q := query.GetStatsQuery{
		AccountID: r.PathValue("id"),
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	}

	result, err := s.deps.GetStatsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetDailyStats handles GET /api/v1/accounts/{id}/stats/daily
func (s *Server) handleGetDailyStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDailyStatsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Daily stats handler not configured")
		return
	}

	q := query.GetDailyStatsQuery{
		AccountID: r.PathValue("id"),
		Days:      getQueryParamInt(r, "days", 30),
	}

	result, err := s.deps.GetDailyStatsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetBestRecords handles GET /api/v1/accounts/{id}/records/best
func (s *Server) handleGetBestRecords(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetBestRecordsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Best records handler not configured")
		return
	}

	q := query.GetBestRecordsQuery{
		AccountID:     r.PathValue("id"),
		IncludeScores: s.config.EnableScores && getQueryParamBool(r, "include_scores"),
		BaseTime:      getQueryParamInt(r, "base_time", 0),
	}

	result, err := s.deps.GetBestRecordsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetGlobalRanking handles GET /api/v1/rankings/global
func (s *Server) handleGetGlobalRanking(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetGlobalRankingHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Ranking handler not configured")
		return
	}

	q := query.GetGlobalRankingQuery{
		PuzzleType: getQueryParam(r, "puzzle_type", ""),
		Difficulty: getQueryParam(r, "difficulty", ""),
		Limit:      getQueryParamInt(r, "limit", 100),
	}

	result, err := s.deps.GetGlobalRankingHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	meta := &ResponseMeta{
		TotalCount: result.TotalCount,
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// handleGetPersonalRanking handles GET /api/v1/rankings/personal
func (s *Server) handleGetPersonalRanking(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetPersonalRankingHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Ranking handler not configured")
		return
	}

	q := query.GetPersonalRankingQuery{
		AccountID:  getQueryParam(r, "account_id", ""),
		PuzzleType: getQueryParam(r, "puzzle_type", ""),
		Difficulty: getQueryParam(r, "difficulty", ""),
	}

	result, err := s.deps.GetPersonalRankingHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// PARAMETER PARSING HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// dateRangeParams reads the date_from/date_to filters. When time-range
// filtering is disabled the parameters are ignored as if absent.
func (s *Server) dateRangeParams(r *http.Request) (*time.Time, *time.Time, error) {
	if !s.config.EnableTimeRangeFilter {
		return nil, nil, nil
	}
	from, err := getQueryParamTime(r, "date_from")
	if err != nil {
		return nil, nil, err
	}
	to, err := getQueryParamTime(r, "date_to")
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// getQueryParamTime parses a timestamp parameter. Accepts RFC3339 and plain
// dates (2006-01-02); nil means absent. A present but unparsable value is an
// error: a malformed filter must fail loudly, never silently widen the query.
func getQueryParamTime(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := timeutil.ParseDate(value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%s must be an RFC3339 timestamp or a YYYY-MM-DD date", key)
}

// getQueryParamIntPtr parses an optional integer parameter; nil means absent.
// A present but non-integer value is an error, same as getQueryParamTime.
func getQueryParamIntPtr(r *http.Request, key string) (*int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &result, nil
}

// parsePathInt64 parses a path segment as an int64; 0 when invalid.
func parsePathInt64(value string) int64 {
	var result int64
	if _, err := fmt.Sscanf(value, "%d", &result); err != nil {
		return 0
	}
	return result
}
