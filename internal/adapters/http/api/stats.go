package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/apexstats/internal/domain/stats"
)

// StatsHandler serves aggregate statistics.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

type statsResponse struct {
	stats.QueryResult
	AverageDamage float64 `json:"average_damage"`
	AverageKills  float64 `json:"average_kills"`
	WinRate       float64 `json:"win_rate"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	result, ok, err := h.deps.QueryFilter(r.Context(), f)
	if err != nil {
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, codeNoData, ErrNoData)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		QueryResult:   result,
		AverageDamage: result.AverageDamage(),
		AverageKills:  result.AverageKills(),
		WinRate:       result.WinRate(),
	})
}

// filterFromRequest reads the filter parameters shared by /stats and
// /observations. character and squad may repeat or carry comma lists.
func filterFromRequest(r *http.Request) (stats.Filter, error) {
	values := r.URL.Query()
	f := stats.Filter{
		Characters: splitList(values["character"]),
		Squads:     splitList(values["squad"]),
		After:      values.Get("after"),
		Before:     values.Get("before"),
	}

	if raw := values.Get("last_week"); raw != "" {
		lastWeek, err := strconv.ParseBool(raw)
		if err != nil {
			return stats.Filter{}, wrapBadRequest("last_week", raw)
		}
		f.LastWeek = lastWeek
	}
	return f, nil
}

func splitList(raw []string) []string {
	var out []string
	for _, v := range raw {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
