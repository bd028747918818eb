package handler

import (
	"net/http"

	"github.com/crt-lab/chatproxy/internal/activitylog"
	"github.com/crt-lab/chatproxy/internal/model"
)

// TestLogHandler handles the logging diagnostics endpoint.
type TestLogHandler struct {
	activity *activitylog.Logger
}

// NewTestLogHandler creates a new test-log handler.
func NewTestLogHandler(activity *activitylog.Logger) *TestLogHandler {
	return &TestLogHandler{activity: activity}
}

// TestLog handles GET /api/test-log. It fires two synthetic events so an
// operator can verify the sink wiring without running a conversation.
func (h *TestLogHandler) TestLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.activity.Log(ctx, "DEBUG_PID", "LongBot1", string(model.RoleUser), "Test user message")
	h.activity.Log(ctx, "DEBUG_PID", "LongBot1", string(model.RoleAssistant), "Test assistant reply")

	writeJSON(w, http.StatusOK, model.TestLogResponse{
		Status:  "success",
		Message: "Test logs sent. Check the sheet and server logs.",
	})
}
