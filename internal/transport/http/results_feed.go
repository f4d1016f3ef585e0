package http

import (
	"log"
	"net/http"
)

type feedMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// handleResultsLive streams new results of a quiz to its author over a
// websocket. The subscription is authorized before the upgrade, so a
// non-author gets a plain HTTP 403 instead of a dead socket.
func (a *API) handleResultsLive(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r)
	if user == nil {
		return
	}
	quizID := r.PathValue("id")

	events, cancel, err := a.results.SubscribeAsAuthor(r.Context(), user.ID, quizID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan feedMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// single writer goroutine; gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- feedMessage{Type: "result", Payload: event}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- feedMessage{Type: "subscribed", Payload: quizID}

	// the feed is outbound-only; reading just notices the peer going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}
