package service

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crt-lab/chatproxy/internal/activitylog"
	"github.com/crt-lab/chatproxy/internal/llm"
	"github.com/crt-lab/chatproxy/internal/model"
	"github.com/crt-lab/chatproxy/internal/prompt"
	"github.com/crt-lab/chatproxy/internal/store"
	"github.com/crt-lab/chatproxy/pkg/logger"
)

// fakeClient returns a canned reply or error and records the last request.
type fakeClient struct {
	reply   string
	err     error
	lastReq *llm.CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply, Model: "fake"}, nil
}

func (f *fakeClient) Name() string     { return "fake" }
func (f *fakeClient) Models() []string { return []string{"fake"} }

// captureSink records appended rows in order.
type captureSink struct {
	mu   sync.Mutex
	rows [][]string
	err  error
}

func (s *captureSink) AppendRow(ctx context.Context, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *captureSink) all() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

func newTestService(t *testing.T, client llm.Client, sink activitylog.Sink) (*ChatService, *store.Memory) {
	t.Helper()
	log := logger.NewNop()
	activity := activitylog.New(sink, log,
		activitylog.WithBackupFile(filepath.Join(t.TempDir(), "backup.txt")))
	st := store.NewMemory()
	return NewChatService(st, activity, client, log), st
}

func TestNewSessionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		assert.Regexp(t, regexp.MustCompile(`^[0-9]{1,16}$`), id)
		assert.LessOrEqual(t, len(id), 16)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 90, "session ids should be effectively unique")
}

func TestCreateSession(t *testing.T) {
	sink := &captureSink{}
	svc, _ := newTestService(t, &fakeClient{reply: "hi"}, sink)

	resp := svc.CreateSession(context.Background(), "P1", "3")

	assert.Equal(t, "P1", resp.ProlificPID)
	assert.Equal(t, "LongBot3", resp.BotID)
	assert.NotEmpty(t, resp.SessionID)

	rows := sink.all()
	require.Len(t, rows, 1)
	assert.Equal(t, "P1", rows[0][1])
	assert.Equal(t, "LongBot3", rows[0][2])
	assert.Equal(t, model.Arm, rows[0][3])
	assert.Equal(t, "session", rows[0][4])
	assert.Equal(t, "session_created:"+resp.SessionID, rows[0][5])
}

func TestCreateSessionSentinels(t *testing.T) {
	sink := &captureSink{}
	svc, _ := newTestService(t, nil, sink)

	resp := svc.CreateSession(context.Background(), "", "")

	assert.Equal(t, "NO_PID", resp.ProlificPID)
	assert.Equal(t, "UnknownBot", resp.BotID)
}

func TestChatHappyPath(t *testing.T) {
	client := &fakeClient{reply: "Hello! How can I help you today?"}
	sink := &captureSink{}
	svc, st := newTestService(t, client, sink)

	resp := svc.Chat(context.Background(), &model.ChatRequest{
		PID: "P1", Bot: "3", Message: "hi",
	})

	assert.Equal(t, "Hello! How can I help you today?", resp.Reply)
	assert.Regexp(t, regexp.MustCompile(`^P1:LongBot3:\d+$`), resp.SessionID)

	// Both turns stored, in order.
	turns := st.Get("P1:LongBot3")
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "hi", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)

	// Exactly two events, user then assistant.
	rows := sink.all()
	require.Len(t, rows, 2)
	assert.Equal(t, "user", rows[0][4])
	assert.Equal(t, "hi", rows[0][5])
	assert.Equal(t, "assistant", rows[1][4])
	assert.Equal(t, resp.Reply, rows[1][5])
}

func TestChatSendsSystemPromptFirst(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	svc, _ := newTestService(t, client, &captureSink{})

	svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "1", Message: "hi"})

	require.NotNil(t, client.lastReq)
	require.NotEmpty(t, client.lastReq.Messages)
	assert.Equal(t, "system", client.lastReq.Messages[0].Role)
	assert.Equal(t, prompt.SystemPrompt, client.lastReq.Messages[0].Content)
	assert.Equal(t, llm.DefaultMaxTokens, client.lastReq.MaxTokens)
	assert.Equal(t, llm.DefaultTemperature, client.lastReq.Temperature)
}

func TestChatProviderFailureReturnsFallback(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	sink := &captureSink{}
	svc, st := newTestService(t, client, sink)

	resp := svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "1", Message: "hi"})

	assert.Equal(t, FallbackReply, resp.Reply)

	// User turn stored, no assistant turn appended.
	turns := st.Get("P1:LongBot1")
	require.Len(t, turns, 1)
	assert.Equal(t, model.RoleUser, turns[0].Role)

	// Fallback reply is still logged as the assistant event.
	rows := sink.all()
	require.Len(t, rows, 2)
	assert.Equal(t, "assistant", rows[1][4])
	assert.Equal(t, FallbackReply, rows[1][5])
}

func TestChatUnconfiguredProviderReturnsFallback(t *testing.T) {
	svc, _ := newTestService(t, nil, &captureSink{})

	for i := 0; i < 3; i++ {
		resp := svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "1", Message: "hi"})
		assert.Equal(t, FallbackReply, resp.Reply)
	}
}

func TestChatFailureLeavesConsecutiveUserTurns(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	svc, st := newTestService(t, client, &captureSink{})

	svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "1", Message: "one"})
	svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "1", Message: "two"})

	turns := st.Get("P1:LongBot1")
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, model.RoleUser, turns[1].Role)
}

func TestChatTrimsToMaxHistory(t *testing.T) {
	client := &fakeClient{err: errors.New("provider down")}
	svc, st := newTestService(t, client, &captureSink{})

	for i := 1; i <= 11; i++ {
		svc.Chat(context.Background(), &model.ChatRequest{
			PID: "P1", Bot: "1", Message: "turn-" + strings.Repeat("x", i),
		})
	}

	turns := st.Get("P1:LongBot1")
	require.Len(t, turns, store.MaxHistory)
	assert.Equal(t, "turn-"+strings.Repeat("x", 11), turns[len(turns)-1].Content)
	for _, turn := range turns {
		assert.NotEqual(t, "turn-x", turn.Content, "turn #1 should have been trimmed")
	}
}

func TestChatParticipantFieldPriority(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	sink := &captureSink{}
	svc, _ := newTestService(t, client, sink)

	svc.Chat(context.Background(), &model.ChatRequest{
		ProlificPID: "PRIMARY", TestPID: "TEST", PID: "GENERIC",
		Bot: "1", Message: "hi",
	})

	rows := sink.all()
	require.NotEmpty(t, rows)
	assert.Equal(t, "PRIMARY", rows[0][1])
}

func TestChatUnknownBotPassthrough(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	sink := &captureSink{}
	svc, st := newTestService(t, client, sink)

	svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "FancyBot", Message: "hi"})

	assert.Len(t, st.Get("P1:FancyBot"), 2)
	rows := sink.all()
	require.NotEmpty(t, rows)
	assert.Equal(t, "FancyBot", rows[0][2])
}

func TestChatSinkFailureDoesNotAffectReply(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	sink := &captureSink{err: errors.New("sink down")}
	svc, _ := newTestService(t, client, sink)

	resp := svc.Chat(context.Background(), &model.ChatRequest{PID: "P1", Bot: "1", Message: "hi"})

	assert.Equal(t, "ok", resp.Reply)
}
