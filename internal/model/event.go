package model

// Arm is the experiment-condition label attached to every logged event.
const Arm = "crt-intuitive"

// LogEvent is one row of experiment telemetry. Write-once, append-only.
type LogEvent struct {
	Timestamp     string `json:"timestamp"`
	ParticipantID string `json:"participant_id"`
	BotID         string `json:"bot_id"`
	Arm           string `json:"arm"`
	Role          string `json:"role"`
	Content       string `json:"content"`
}

// Row renders the event in the sink's column order:
// timestamp | prolific_pid | bot_id | arm | role | content.
func (e LogEvent) Row() []string {
	return []string{e.Timestamp, e.ParticipantID, e.BotID, e.Arm, e.Role, e.Content}
}
