package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/store"
)

// webhookPayload is the JSON body sent to the generic webhook sink.
type webhookPayload struct {
	Event     EventKind  `json:"event"`
	Timestamp string     `json:"timestamp"`
	Task      store.Task `json:"task"`
	Changes   *Change    `json:"changes,omitempty"`
}

// webhookSink POSTs the raw event payload to a configured URL.
type webhookSink struct {
	cfg    config.Webhook
	client *http.Client
}

func (s *webhookSink) Name() string { return "webhook" }

func (s *webhookSink) Send(ctx context.Context, ev Event) error {
	payload := webhookPayload{
		Event:     ev.Kind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Task:      ev.Task,
		Changes:   ev.Change,
	}
	headers := map[string]string{}
	if s.cfg.Token != "" {
		headers["Authorization"] = "Bearer " + s.cfg.Token
	}
	return postJSON(ctx, s.client, s.cfg.URL, payload, headers)
}

// agentSink notifies a chat-bot agent through its hooks endpoint.
// Moves into done or in-progress are suppressed: the agent caused
// those transitions itself and doesn't need to hear about them.
type agentSink struct {
	cfg    config.Agent
	client *http.Client
}

func (s *agentSink) Name() string { return "agent" }

func (s *agentSink) Send(ctx context.Context, ev Event) error {
	if ev.Kind == EventMoved && ev.Change != nil &&
		(ev.Change.To == store.ColumnDone || ev.Change.To == store.ColumnInProgress) {
		return nil
	}

	body := map[string]any{
		"message":    AgentMessage(ev),
		"name":       "taskdeck",
		"sessionKey": fmt.Sprintf("hook:taskdeck:task-%s", ev.Task.ID),
		"deliver":    false,
	}
	headers := map[string]string{"Authorization": "Bearer " + s.cfg.Token}
	return postJSON(ctx, s.client, s.cfg.URL+"/hooks/agent", body, headers)
}

const telegramAPIBase = "https://api.telegram.org"

// telegramSink sends a Markdown message via the Telegram Bot API.
type telegramSink struct {
	cfg     config.Telegram
	client  *http.Client
	apiBase string
}

func (s *telegramSink) Name() string { return "telegram" }

func (s *telegramSink) Send(ctx context.Context, ev Event) error {
	body := map[string]any{
		"chat_id":    s.cfg.ChatID,
		"text":       TelegramMessage(ev),
		"parse_mode": "Markdown",
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.cfg.BotToken)
	return postJSON(ctx, s.client, url, body, nil)
}

// postJSON sends one JSON POST and treats any non-2xx status as an error.
func postJSON(ctx context.Context, client *http.Client, url string, body any, headers map[string]string) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
