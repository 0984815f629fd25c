package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/nlp"
)

// Interpret handles POST /api/voice/interpret.
//
//	@Summary		Interpret and execute a voice command
//	@Tags			voice
//	@Accept			json
//	@Produce		json
//	@Param			body	body		InterpretRequest	true	"Transcript to interpret"
//	@Success		200		{object}	InterpretResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/voice/interpret [post]
func (h *Handler) Interpret(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req InterpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	res, err := h.voice.Interpret(r.Context(), models.Transcript{
		Text:       req.Transcript,
		Confidence: req.Confidence,
	})
	if err != nil {
		writeServiceError(w, "interpret", err)
		return
	}
	if res.Event != nil {
		switch res.Interpretation.Intent.Type {
		case nlp.IntentCancel:
			h.notify("deleted", res.Event.ID)
		case nlp.IntentReschedule:
			h.notify("updated", res.Event.ID)
		default:
			h.notify("created", res.Event.ID)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// VoiceHistory handles GET /api/voice/history.
//
//	@Summary		List recorded voice commands, newest first
//	@Tags			voice
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Page offset"
//	@Success		200		{object}	VoiceHistoryResponse
//	@Security		BearerAuth
//	@Router			/voice/history [get]
func (h *Handler) VoiceHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	commands, total, err := h.voice.History(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, "voice history", err)
		return
	}
	if commands == nil {
		commands = []models.VoiceCommand{}
	}
	writeJSON(w, http.StatusOK, VoiceHistoryResponse{Commands: commands, Total: total})
}

// VoiceAnalytics handles GET /api/voice/analytics.
//
//	@Summary		Voice usage summary over a trailing window
//	@Tags			voice
//	@Produce		json
//	@Param			days	query		int	false	"Window in days (default 30)"
//	@Success		200		{object}	store.VoiceStats
//	@Security		BearerAuth
//	@Router			/voice/analytics [get]
func (h *Handler) VoiceAnalytics(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}
	stats, err := h.voice.Analytics(r.Context(), days)
	if err != nil {
		writeServiceError(w, "voice analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
