package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsTestServer runs a minimal signatureSubscribe endpoint. The handler
// decides the per-signature outcome.
func wsTestServer(t *testing.T, outcome func(signature string) interface{}) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var nextSubID int64 = 1
		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req.Method != "signatureSubscribe" {
				continue
			}

			signature, _ := req.Params[0].(string)
			subID := nextSubID
			nextSubID++

			conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  subID,
			})

			conn.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"method":  "signatureNotification",
				"params": map[string]interface{}{
					"subscription": subID,
					"result": map[string]interface{}{
						"context": map[string]interface{}{"slot": 1000},
						"value":   map[string]interface{}{"err": outcome(signature)},
					},
				},
			})
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSConfirmer_Confirms(t *testing.T) {
	server := wsTestServer(t, func(string) interface{} { return nil })
	defer server.Close()

	confirmer, err := NewWSConfirmer(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSConfirmer: %v", err)
	}
	defer confirmer.Close()

	if err := confirmer.Confirm(context.Background(), "sig1"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
}

func TestWSConfirmer_LedgerError(t *testing.T) {
	server := wsTestServer(t, func(string) interface{} {
		return map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}
	})
	defer server.Close()

	confirmer, err := NewWSConfirmer(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSConfirmer: %v", err)
	}
	defer confirmer.Close()

	if err := confirmer.Confirm(context.Background(), "sig1"); err == nil {
		t.Fatal("expected error for failed transaction")
	}
}

func TestWSConfirmer_ConcurrentWaiters(t *testing.T) {
	server := wsTestServer(t, func(string) interface{} { return nil })
	defer server.Close()

	confirmer, err := NewWSConfirmer(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSConfirmer: %v", err)
	}
	defer confirmer.Close()

	errs := make(chan error, 3)
	for _, sig := range []string{"sigA", "sigB", "sigC"} {
		go func(sig string) {
			errs <- confirmer.Confirm(context.Background(), sig)
		}(sig)
	}

	for i := 0; i < 3; i++ {
		select {
		case err := <-errs:
			if err != nil {
				t.Errorf("Confirm: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for confirmations")
		}
	}
}

func TestWSConfirmer_ConfirmAfterClose(t *testing.T) {
	server := wsTestServer(t, func(string) interface{} { return nil })
	defer server.Close()

	confirmer, err := NewWSConfirmer(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSConfirmer: %v", err)
	}
	confirmer.Close()

	if err := confirmer.Confirm(context.Background(), "sig1"); err == nil {
		t.Fatal("expected error after close")
	}
}

func TestWSConfirmer_SubscribeRequestShape(t *testing.T) {
	gotParams := make(chan []interface{}, 1)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req wsRequest
		json.Unmarshal(message, &req)
		gotParams <- req.Params

		conn.WriteJSON(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": int64(7)})
		conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "signatureNotification",
			"params": map[string]interface{}{
				"subscription": int64(7),
				"result":       map[string]interface{}{"value": map[string]interface{}{"err": nil}},
			},
		})
	}))
	defer server.Close()

	cfg := DefaultWSConfirmerConfig()
	cfg.Commitment = CommitmentFinalized
	confirmer, err := NewWSConfirmer(context.Background(), wsURL(server), &cfg)
	if err != nil {
		t.Fatalf("NewWSConfirmer: %v", err)
	}
	defer confirmer.Close()

	if err := confirmer.Confirm(context.Background(), "sigX"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	params := <-gotParams
	if len(params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(params))
	}
	if params[0] != "sigX" {
		t.Errorf("expected signature param sigX, got %v", params[0])
	}
	opts, ok := params[1].(map[string]interface{})
	if !ok || opts["commitment"] != CommitmentFinalized {
		t.Errorf("expected finalized commitment, got %v", params[1])
	}
}
