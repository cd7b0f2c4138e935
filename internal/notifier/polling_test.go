package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

// recordingTransport captures request bodies and answers 200 OK without
// touching the network.
type recordingTransport struct {
	bodies []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		rt.bodies = append(rt.bodies, string(b))
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
		Header:     make(http.Header),
	}, nil
}

func decodeUpdates(t *testing.T, raw string) []telegramUpdate {
	t.Helper()
	var updates []telegramUpdate
	if err := json.Unmarshal([]byte(raw), &updates); err != nil {
		t.Fatalf("decode updates: %v", err)
	}
	return updates
}

func TestDispatch_RoutesCommandsFromConfiguredChat(t *testing.T) {
	rt := &recordingTransport{}
	n := &TelegramNotifier{BotToken: "token", ChatID: "42", Client: &http.Client{Transport: rt}}

	updates := decodeUpdates(t, `[
		{"update_id":7,"message":{"text":"/refresh","chat":{"id":99}}},
		{"update_id":8,"message":{"text":"hello","chat":{"id":42}}},
		{"update_id":9},
		{"update_id":10,"message":{"text":"/status","chat":{"id":42}}}
	]`)

	var handled []string
	offset := n.dispatch(updates, func(cmd string) string {
		handled = append(handled, cmd)
		if cmd == "/status" {
			return "status report"
		}
		return ""
	}, 0)

	if offset != 11 {
		t.Errorf("offset = %d, want 11", offset)
	}
	// Only the slash command from the configured chat reaches the handler:
	// chat 99 is ignored, plain text is ignored, empty updates are skipped.
	if len(handled) != 1 || handled[0] != "/status" {
		t.Errorf("handled = %v, want [/status]", handled)
	}
	if len(rt.bodies) != 1 {
		t.Fatalf("sent %d replies, want 1", len(rt.bodies))
	}
	if !strings.Contains(rt.bodies[0], "status report") || !strings.Contains(rt.bodies[0], `"chat_id":"42"`) {
		t.Errorf("reply body = %s", rt.bodies[0])
	}
}

func TestDispatch_RefreshCommandHasNoImmediateReply(t *testing.T) {
	rt := &recordingTransport{}
	n := &TelegramNotifier{BotToken: "token", ChatID: "42", Client: &http.Client{Transport: rt}}

	updates := decodeUpdates(t, `[{"update_id":3,"message":{"text":"/refresh","chat":{"id":42}}}]`)

	var handled []string
	n.dispatch(updates, func(cmd string) string {
		handled = append(handled, cmd)
		return ""
	}, 0)

	if len(handled) != 1 || handled[0] != "/refresh" {
		t.Errorf("handled = %v, want [/refresh]", handled)
	}
	if len(rt.bodies) != 0 {
		t.Errorf("sent %d replies, want none", len(rt.bodies))
	}
}

func TestDispatch_AnyChatWhenUnrestricted(t *testing.T) {
	n := &TelegramNotifier{BotToken: "token", Client: &http.Client{Transport: &recordingTransport{}}}

	updates := decodeUpdates(t, `[{"update_id":1,"message":{"text":"/refresh","chat":{"id":99}}}]`)

	var handled []string
	n.dispatch(updates, func(cmd string) string {
		handled = append(handled, cmd)
		return ""
	}, 0)

	if len(handled) != 1 || handled[0] != "/refresh" {
		t.Errorf("handled = %v, want [/refresh]", handled)
	}
}
