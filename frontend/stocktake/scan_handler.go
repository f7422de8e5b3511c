package stocktake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	sessioncontext "stocktaker/frontend/shared/context"
	"stocktaker/infrastructure/audit"
	"stocktaker/infrastructure/barcode"
	"stocktaker/infrastructure/cache"
	"stocktaker/infrastructure/scanqueue"
	"stocktaker/infrastructure/sqlite"
	"stocktaker/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pipelineForRequest(w http.ResponseWriter, r *http.Request, pipelines *cache.ScanPipelineCache) (*cache.Pipeline, bool) {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
		return nil, false
	}
	p, ok := pipelines.Get(session.ID)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "scan pipeline unavailable"})
		return nil, false
	}
	return p, true
}

// SubmitScanCommandHandler accepts one barcode for the session queue.
func SubmitScanCommandHandler(pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pipelineForRequest(w, r, pipelines)
		if !ok {
			return
		}
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		info := barcode.Classify(strings.TrimSpace(req.Code))
		if err := p.Sequencer.Submit(info); err != nil {
			switch {
			case errors.Is(err, scanqueue.ErrUnrecognized):
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Unrecognized barcode format"})
			case errors.Is(err, scanqueue.ErrClosed):
				writeJSON(w, http.StatusConflict, map[string]string{"error": "scan pipeline closed"})
			default:
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return
		}
		writeJSON(w, http.StatusAccepted, p.Sequencer.Snapshot())
	}
}

// ScanStateQueryHandler reports the live pipeline state for polling.
func ScanStateQueryHandler(pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pipelineForRequest(w, r, pipelines)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, p.Sequencer.Snapshot())
	}
}

// ChooseMatchCommandHandler resolves a pending multi-match choice.
func ChooseMatchCommandHandler(pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pipelineForRequest(w, r, pipelines)
		if !ok {
			return
		}
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := p.Sequencer.Choose(req.Index); err != nil {
			switch {
			case errors.Is(err, scanqueue.ErrNotAwaiting):
				writeJSON(w, http.StatusConflict, map[string]string{"error": "no product choice pending"})
			case errors.Is(err, scanqueue.ErrChoiceOutside):
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "choice index out of range"})
			default:
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
			return
		}
		writeJSON(w, http.StatusOK, p.Sequencer.Snapshot())
	}
}

// CancelChoiceCommandHandler drops the scan waiting on a choice.
func CancelChoiceCommandHandler(pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pipelineForRequest(w, r, pipelines)
		if !ok {
			return
		}
		if err := p.Sequencer.CancelChoice(); err != nil {
			if errors.Is(err, scanqueue.ErrNotAwaiting) {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "no product choice pending"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, p.Sequencer.Snapshot())
	}
}

// DismissErrorCommandHandler clears a held failure and re-arms the camera
// filter so the same label can be retried immediately.
func DismissErrorCommandHandler(pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pipelineForRequest(w, r, pipelines)
		if !ok {
			return
		}
		p.Sequencer.DismissError()
		p.Frames.Reset()
		writeJSON(w, http.StatusOK, p.Sequencer.Snapshot())
	}
}

// CameraFrameCommandHandler feeds one camera decode through the debounce
// filter and submits the code when it passes.
func CameraFrameCommandHandler(pipelines *cache.ScanPipelineCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := pipelineForRequest(w, r, pipelines)
		if !ok {
			return
		}
		var frame scanqueue.Frame
		if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		frame.Code = strings.TrimSpace(frame.Code)

		resp := struct {
			Accepted bool               `json:"accepted"`
			Code     string             `json:"code,omitempty"`
			Error    string             `json:"error,omitempty"`
			State    scanqueue.Snapshot `json:"state"`
		}{}

		if code, accepted := p.Frames.Observe(frame); accepted {
			if err := p.Sequencer.Submit(barcode.Classify(code)); err != nil {
				if errors.Is(err, scanqueue.ErrUnrecognized) {
					resp.Error = "Unrecognized barcode format"
				} else {
					resp.Error = err.Error()
				}
			} else {
				resp.Accepted = true
				resp.Code = code
			}
		}
		resp.State = p.Sequencer.Snapshot()
		writeJSON(w, http.StatusOK, resp)
	}
}

// SessionItemsQueryHandler returns the session ledger as JSON.
func SessionItemsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
			return
		}
		items, err := ListScans(r.Context(), db, session.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load session ledger"})
			return
		}
		writeJSON(w, http.StatusOK, ItemsResponse{Items: items, TotalAdded: TotalAdded(items)})
	}
}

// ClearSessionCommandHandler empties the ledger for a fresh count.
func ClearSessionCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session required"})
			return
		}
		if err := ClearScans(r.Context(), db, auditSvc, session.ID); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear session"})
			return
		}
		writeJSON(w, http.StatusOK, ItemsResponse{Items: []models.ScannedItem{}, TotalAdded: 0})
	}
}
