package api

import (
	"encoding/json"
	"net/http"

	"github.com/kotan/tally/internal/models"
)

// inboundEvent is the wire shape for POST /v1/events. Type selects
// which of the two turn kinds the remaining fields describe.
type inboundEvent struct {
	Type       string            `json:"type"` // "text" or "action"
	GroupKey   string            `json:"group_key"`
	ActorID    string            `json:"actor_id"`
	ActorLabel string            `json:"actor_label,omitempty"`
	Text       string            `json:"text,omitempty"`
	Action     string            `json:"action,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

type outboundReply struct {
	Text string `json:"text,omitempty"`
	Menu string `json:"menu,omitempty"`
}

type eventResponse struct {
	Replies []outboundReply `json:"replies"`
}

func (a *API) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev inboundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if ev.GroupKey == "" || ev.ActorID == "" {
		http.Error(w, "group_key and actor_id are required", http.StatusBadRequest)
		return
	}

	var replies []models.Reply
	switch ev.Type {
	case "text":
		replies = a.bot.HandleText(r.Context(), models.TextTurn{
			GroupKey:   ev.GroupKey,
			ActorID:    ev.ActorID,
			ActorLabel: ev.ActorLabel,
			Text:       ev.Text,
		})
	case "action":
		replies = a.bot.HandleAction(r.Context(), models.ActionTurn{
			GroupKey:   ev.GroupKey,
			ActorID:    ev.ActorID,
			ActorLabel: ev.ActorLabel,
			Action:     ev.Action,
			Params:     ev.Params,
		})
	default:
		http.Error(w, "type must be \"text\" or \"action\"", http.StatusBadRequest)
		return
	}

	resp := eventResponse{Replies: make([]outboundReply, 0, len(replies))}
	for _, reply := range replies {
		resp.Replies = append(resp.Replies, outboundReply{
			Text: reply.Text,
			Menu: string(reply.Menu),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
