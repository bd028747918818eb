package model

import "encoding/json"

// BotToken is a bot field value. Survey embeds send it either quoted or as a
// bare number; both decode to the token string.
type BotToken string

// UnmarshalJSON accepts a JSON string or number.
func (b *BotToken) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = BotToken(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*b = BotToken(n.String())
	return nil
}

// ChatRequest is the body of POST /api/chat. Several participant-id field
// names are accepted for compatibility with older survey embeds.
type ChatRequest struct {
	ProlificPID string   `json:"prolific_pid,omitempty"`
	TestPID     string   `json:"test_pid,omitempty"`
	PID         string   `json:"pid,omitempty"`
	Bot         BotToken `json:"bot"`
	Message     string   `json:"message"`
}

// ChatResponse is the response to POST /api/chat. SessionID here is a
// synthesized participant:bot:timestamp string, informational only.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// SessionResponse is the response to POST /api/session.
type SessionResponse struct {
	SessionID   string `json:"session_id"`
	ProlificPID string `json:"prolific_pid"`
	BotID       string `json:"bot_id"`
}

// TestLogResponse is the response to GET /api/test-log.
type TestLogResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
