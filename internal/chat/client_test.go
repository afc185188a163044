// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qiaoxue/bridgelab/internal/config"
)

// stubBot mimics the v3 chat API: create reports the chat as completed
// immediately, the message list carries one answer.
func stubBot(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/chat", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("create body: %v", err)
		}
		if body["bot_id"] != "test-bot" {
			t.Errorf("bot_id = %v", body["bot_id"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"data": map[string]string{
				"id":              "chat-1",
				"conversation_id": "conv-1",
				"status":          "completed",
			},
		})
	})
	mux.HandleFunc("/v3/chat/message/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"data": []map[string]string{
				{"role": "assistant", "type": "verbose", "content": "{}"},
				{"role": "assistant", "type": "answer", "content": answer},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func botConfig(baseURL string) config.Chat {
	return config.Chat{APIKey: "test-key", BotID: "test-bot", BaseURL: baseURL}
}

func TestClientAsk(t *testing.T) {
	srv := stubBot(t, "梁桥适合短跨径。")

	client := NewClient(botConfig(srv.URL))
	answer, err := client.Ask(context.Background(), "梁桥的特点？")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "梁桥适合短跨径。" {
		t.Errorf("answer = %q", answer)
	}
}

func TestServicePrefersLiveBot(t *testing.T) {
	srv := stubBot(t, "live answer")

	svc := NewService(NewClient(botConfig(srv.URL)))
	reply, live := svc.Reply(context.Background(), "anything")
	if !live {
		t.Error("reply not attributed to the live bot")
	}
	if reply != "live answer" {
		t.Errorf("reply = %q", reply)
	}
}

func TestServiceDegradesWhenBotFails(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)

	svc := NewService(NewClient(botConfig(failing.URL)))
	reply, live := svc.Reply(context.Background(), "hello")
	if live {
		t.Error("failed bot call reported as live")
	}
	if reply == "" {
		t.Error("no fallback reply after bot failure")
	}
}
