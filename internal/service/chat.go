// Package service provides the conversation flow for the chat proxy.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crt-lab/chatproxy/internal/activitylog"
	"github.com/crt-lab/chatproxy/internal/identity"
	"github.com/crt-lab/chatproxy/internal/llm"
	"github.com/crt-lab/chatproxy/internal/model"
	"github.com/crt-lab/chatproxy/internal/prompt"
	"github.com/crt-lab/chatproxy/internal/store"
	"github.com/crt-lab/chatproxy/pkg/logger"
	"github.com/crt-lab/chatproxy/pkg/metrics"
)

// FallbackReply is returned whenever the completion provider fails. The
// caller always receives a usable reply; provider failures are diagnostic
// and metric visible only.
const FallbackReply = "Sorry, I couldn't generate a response right now."

// ErrProviderUnavailable reports that no completion client is configured.
var ErrProviderUnavailable = errors.New("completion provider not configured")

// ChatService orchestrates identity resolution, the conversation store, the
// activity logger and the completion provider. The provider client may be
// nil; every call then degrades to the fallback reply.
type ChatService struct {
	store    store.Store
	activity *activitylog.Logger
	client   llm.Client
	log      *logger.Logger
}

// NewChatService creates a chat service.
func NewChatService(st store.Store, activity *activitylog.Logger, client llm.Client, log *logger.Logger) *ChatService {
	return &ChatService{
		store:    st,
		activity: activity,
		client:   client,
		log:      log,
	}
}

// NewSessionID returns a 16-digit decimal string derived from a random
// 128-bit value. Opaque; never looked up again after creation.
func NewSessionID() string {
	u := uuid.New()
	s := new(big.Int).SetBytes(u[:]).String()
	if len(s) > 16 {
		s = s[:16]
	}
	return s
}

// CreateSession resolves identity, mints a session id and logs the creation
// event.
func (s *ChatService) CreateSession(ctx context.Context, pid, botToken string) *model.SessionResponse {
	if pid == "" {
		pid = identity.NoParticipant
	}
	botID := identity.ResolveBotOrUnknown(botToken)

	sessionID := NewSessionID()
	s.activity.Log(ctx, pid, botID, string(model.RoleSession), "session_created:"+sessionID)
	metrics.SessionsTotal.Inc()

	s.log.Info("session created",
		zap.String("participant_id", pid),
		zap.String("bot_id", botID),
		zap.String("session_id", sessionID),
	)

	return &model.SessionResponse{
		SessionID:   sessionID,
		ProlificPID: pid,
		BotID:       botID,
	}
}

// Chat runs one conversation turn: append the user message, log it, call the
// provider over the assembled prompt, append and log the reply. Input is
// assumed validated by the handler; identity inputs never fail, they resolve
// to sentinels.
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest) *model.ChatResponse {
	pid := identity.ResolveParticipant(req.ProlificPID, req.TestPID, req.PID)
	botID := identity.ResolveBot(string(req.Bot))
	key := store.Key(pid, botID)

	history := s.store.AppendAndTrim(key, model.UserTurn(req.Message))
	metrics.TurnsTotal.WithLabelValues(string(model.RoleUser)).Inc()
	metrics.ConversationsActive.Set(float64(s.store.Len()))

	s.activity.Log(ctx, pid, botID, string(model.RoleUser), req.Message)

	reply, err := s.complete(ctx, prompt.BuildMessages(history))
	if err != nil {
		// The user turn is already stored and logged; a failed call leaves
		// the history ending in consecutive user turns. Kept that way so the
		// log records exactly what the participant saw.
		s.log.Error("completion failed",
			zap.String("participant_id", pid),
			zap.String("bot_id", botID),
			zap.Error(err),
		)
		metrics.FallbackRepliesTotal.Inc()
		reply = FallbackReply
	} else {
		s.store.AppendAndTrim(key, model.AssistantTurn(reply))
		metrics.TurnsTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
	}

	s.activity.Log(ctx, pid, botID, string(model.RoleAssistant), reply)

	return &model.ChatResponse{
		Reply:     reply,
		SessionID: fmt.Sprintf("%s:%s:%d", pid, botID, time.Now().Unix()),
	}
}

func (s *ChatService) complete(ctx context.Context, messages []model.Turn) (string, error) {
	if s.client == nil {
		return "", ErrProviderUnavailable
	}

	chat := make([]llm.ChatMessage, len(messages))
	for i, turn := range messages {
		chat[i] = llm.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		}
	}

	resp, err := s.client.Complete(ctx, &llm.CompletionRequest{
		Messages:    chat,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: llm.DefaultTemperature,
	})
	if err != nil {
		metrics.RecordCompletion(s.client.Name(), "error", 0, 0, 0)
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	metrics.RecordCompletion(s.client.Name(), "success",
		float64(resp.LatencyMs)/1000.0, resp.TokensIn, resp.TokensOut)

	return strings.TrimSpace(resp.Content), nil
}

// ProviderConfigured reports whether a completion client is attached.
func (s *ChatService) ProviderConfigured() bool {
	return s.client != nil
}
