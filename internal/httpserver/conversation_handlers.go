package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slightknack/aeromessage/internal/contacts"
	"github.com/slightknack/aeromessage/internal/domain"
	"github.com/slightknack/aeromessage/internal/service"
	"github.com/slightknack/aeromessage/internal/ws"
)

func handleListConversations(convSvc *service.ConversationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convs, err := convSvc.UnreadConversations(r.Context())
		if err != nil {
			writeJSON(w, storeErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		if convs == nil {
			convs = []*domain.Conversation{}
		}
		writeJSON(w, http.StatusOK, convs)
	}
}

type markReadRequest struct {
	ChatIdentifier string `json:"chat_identifier"`
}

func handleMarkRead(replySvc *service.ReplyService, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChatIdentifier == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat_identifier is required"})
			return
		}
		affected, err := replySvc.MarkRead(r.Context(), req.ChatIdentifier)
		if err != nil {
			writeJSON(w, storeErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		hub.Broadcast(ws.Event{Type: ws.EventInboxChanged})
		writeJSON(w, http.StatusOK, map[string]int64{"marked": affected})
	}
}

func handleReloadContacts(resolver *contacts.Resolver, sourcesDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := resolver.LoadAddressBook(r.Context(), sourcesDir)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"loaded": count})
	}
}

// storeErrorStatus maps the store error taxonomy to HTTP statuses so callers
// can tell a missing database from a sandbox denial.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
