package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/slightknack/aeromessage/internal/service"
	"github.com/slightknack/aeromessage/internal/ws"
)

type draftRequest struct {
	Text string `json:"text"`
}

func chatIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	return id, err == nil
}

func handleSaveDraft(state *service.ReplyState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}
		var req draftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		status := state.SaveDraft(chatID, strings.TrimSpace(req.Text))
		writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
	}
}

func handleCommit(state *service.ReplyState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}
		var req draftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		text := strings.TrimSpace(req.Text)
		if text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no text provided"})
			return
		}
		state.Commit(chatID, text)
		writeJSON(w, http.StatusOK, map[string]string{"status": "committed"})
	}
}

func handleToggleLater(state *service.ReplyState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid chat id"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"later": state.ToggleLater(chatID)})
	}
}

type ignoreRequest struct {
	ChatIdentifier string `json:"chat_identifier"`
}

func handleToggleIgnore(state *service.ReplyState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ignoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChatIdentifier == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat_identifier is required"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ignored": state.ToggleIgnore(req.ChatIdentifier)})
	}
}

func handleGetState(state *service.ReplyState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, state.Snapshot())
	}
}

func handleSendAll(replySvc *service.ReplyService, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := replySvc.SendAll(r.Context())
		if err != nil {
			writeJSON(w, storeErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		hub.Broadcast(ws.Event{Type: ws.EventSendResults, Payload: results})
		hub.Broadcast(ws.Event{Type: ws.EventInboxChanged})
		writeJSON(w, http.StatusOK, results)
	}
}
