package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crt-lab/chatproxy/internal/model"
	"github.com/crt-lab/chatproxy/internal/service"
	"github.com/crt-lab/chatproxy/pkg/logger"
)

// ChatHandler handles session and chat endpoints.
type ChatHandler struct {
	chatService *service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: svc,
		logger:      log,
	}
}

// CreateSession handles POST /api/session?pid=<pid>&bot=<token>
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	pid := r.URL.Query().Get("pid")
	bot := r.URL.Query().Get("bot")

	resp := h.chatService.CreateSession(r.Context(), pid, bot)
	writeJSON(w, http.StatusOK, resp)
}

// Chat handles POST /api/chat
//
// Validation happens before any side effect: a rejected request mutates no
// conversation and emits no log events.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("rejected chat request: invalid JSON body")
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Missing required field 'message'")
		return
	}
	if req.Bot == "" {
		writeError(w, http.StatusBadRequest, "Missing required field 'bot'")
		return
	}

	resp := h.chatService.Chat(r.Context(), &req)
	writeJSON(w, http.StatusOK, resp)
}
