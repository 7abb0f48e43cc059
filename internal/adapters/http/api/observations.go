package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/apexstats/internal/domain/dedupe"
	"github.com/okian/apexstats/internal/domain/model"
)

// maxBodyBytes bounds POST /observations bodies.
const maxBodyBytes = 64 << 10

// HeaderIdempotencyKey lets a client retry POST /observations safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// ObservationsHandler records and lists observations.
type ObservationsHandler struct {
	deps    Dependencies
	deduper dedupe.Deduper
}

// NewObservationsHandler creates a new observations handler. A nil deduper
// disables idempotency keys.
func NewObservationsHandler(deps Dependencies, deduper dedupe.Deduper) *ObservationsHandler {
	return &ObservationsHandler{deps: deps, deduper: deduper}
}

// observationRequest is the POST /observations body. Enumerations arrive as
// raw strings so parse failures can echo the rejected input.
type observationRequest struct {
	Kills         uint64 `json:"kills"`
	Damage        uint64 `json:"damage"`
	SquadPosition uint64 `json:"squad_position"`
	Character     string `json:"character"`
	Squad         string `json:"squad"`
	Notes         string `json:"notes"`
	RecordedAt    string `json:"recorded_at"`
}

func (req observationRequest) observation(h *ObservationsHandler) (model.Observation, error) {
	c, err := model.ParseCharacter(req.Character)
	if err != nil {
		return model.Observation{}, err
	}
	s, err := model.ParseSquadComposition(req.Squad)
	if err != nil {
		return model.Observation{}, err
	}

	o := model.Observation{
		Kills:         req.Kills,
		Damage:        req.Damage,
		SquadPosition: req.SquadPosition,
		Character:     c,
		Squad:         s,
		Notes:         req.Notes,
	}
	if req.RecordedAt != "" {
		at, err := model.ParseTimestamp(req.RecordedAt, h.deps.Now().Location())
		if err != nil {
			return model.Observation{}, err
		}
		o.RecordedAt = at
	}
	return o, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type listResponse struct {
	Observations []model.Observation `json:"observations"`
	Count        int                 `json:"count"`
}

// HandleCreate handles POST /observations requests.
func (h *ObservationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	o, err := req.observation(h)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidField, err)
		return
	}

	if o.RecordedAt.IsZero() {
		o.RecordedAt = h.deps.Now()
	}

	key := r.Header.Get(HeaderIdempotencyKey)
	if key != "" && h.deduper != nil && h.deduper.SeenAndRecord(r.Context(), key) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if err := h.deps.Record(r.Context(), o); err != nil {
		// Release the key so the client can retry the failed write.
		if key != "" && h.deduper != nil {
			h.deduper.Unrecord(r.Context(), key)
		}
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}

	writeJSON(w, http.StatusCreated, o)
}

// HandleList handles GET /observations requests.
func (h *ObservationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, wrapBadRequest("limit", raw))
			return
		}
	}

	q, err := f.Query(h.deps.Now())
	if err != nil {
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}

	list, err := h.deps.Observations(r.Context(), q, limit)
	if err != nil {
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}
	if list == nil {
		list = []model.Observation{}
	}
	writeJSON(w, http.StatusOK, listResponse{Observations: list, Count: len(list)})
}

func wrapBadRequest(param, raw string) error {
	return fmt.Errorf("%w: invalid %s %q", ErrBadRequest, param, raw)
}
