package http_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

func wsURL(base, path string) string {
	return "ws" + strings.TrimPrefix(base, "http") + path
}

func TestResultsFeedStreamsToAuthor(t *testing.T) {
	srv := newServer(t)
	author := newClient(t, srv)
	author.login("alice")
	player := newClient(t, srv)
	player.login("bob")

	var created domain.QuizDetail
	if status := author.do("POST", "/api/quizzes", quizPayload("Basic arithmetic"), &created); status != http.StatusCreated {
		t.Fatalf("create: status %d", status)
	}

	dialer := websocket.Dialer{Jar: author.http.Jar}
	conn, _, err := dialer.Dial(wsURL(srv.URL, "/api/quizzes/"+created.ID+"/results/live"), nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	defer conn.Close()

	var hello struct {
		Type    string `json:"type"`
		Payload string `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "subscribed" || hello.Payload != created.ID {
		t.Fatalf("unexpected hello %+v", hello)
	}

	body := map[string]any{
		"quizId": created.ID,
		"answers": []domain.AnswerInput{
			{Question: "What is 2 + 2?", Answer: "4"},
			{Question: "What is 3 - 1?", Answer: "5"},
		},
	}
	if status := player.do("POST", "/api/results", body, nil); status != http.StatusCreated {
		t.Fatalf("submit result: status %d", status)
	}

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if msg.Type != "result" {
		t.Fatalf("expected result event, got %q", msg.Type)
	}
	var event app.ResultEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.QuizID != created.ID || event.Score != 1 || event.Total != 2 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestResultsFeedRejectsNonAuthor(t *testing.T) {
	srv := newServer(t)
	author := newClient(t, srv)
	author.login("alice")
	other := newClient(t, srv)
	other.login("bob")

	var created domain.QuizDetail
	if status := author.do("POST", "/api/quizzes", quizPayload("Basic arithmetic"), &created); status != http.StatusCreated {
		t.Fatalf("create: status %d", status)
	}

	dialer := websocket.Dialer{Jar: other.http.Jar}
	_, resp, err := dialer.Dial(wsURL(srv.URL, "/api/quizzes/"+created.ID+"/results/live"), nil)
	if err == nil {
		t.Fatalf("expected handshake rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 before upgrade, got %+v", resp)
	}
}
