package leaderboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kkurian/typeattack/internal/session"
	"github.com/kkurian/typeattack/internal/storage"
	"github.com/kkurian/typeattack/internal/submit"
)

func testServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "lb.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	srv := NewServer(store, cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

// validPayload builds a hashable session with realistic stats and wraps it
// into the submission shape. The seed varies the hash between calls.
func validPayload(t *testing.T, seed int64) submit.Payload {
	t.Helper()
	clk := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clk = clk.Add(500 * time.Millisecond)
		return clk
	}

	r := session.NewRecorderWithClock(tick)
	r.Start(seed)
	idx := r.AddWord("cat", 0, 0)
	for _, ch := range "cat" {
		r.RecordKeystroke(ch, idx, true)
	}
	r.CompleteWord(idx)
	snap, err := r.End()
	if err != nil {
		t.Fatal(err)
	}

	hash, err := session.Hash(snap)
	if err != nil {
		t.Fatal(err)
	}
	return submit.Payload{
		UserID:      uuid.NewString(),
		Initials:    "KAZ",
		SessionHash: hash,
		SessionData: snap,
	}
}

func post(t *testing.T, url string, payload submit.Payload) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url+"/api/scores", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func rejection(t *testing.T, resp *http.Response) submit.SubmitError {
	t.Helper()
	var rej submit.SubmitError
	if err := json.NewDecoder(resp.Body).Decode(&rej); err != nil {
		t.Fatalf("cannot decode rejection: %v", err)
	}
	return rej
}

func TestSubmitAcceptAndList(t *testing.T) {
	_, ts := testServer(t, DefaultConfig())

	resp := post(t, ts.URL, validPayload(t, 1))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, expected 200", resp.StatusCode)
	}
	var ack submit.Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatal(err)
	}
	if ack.Message != "accepted" {
		t.Errorf("ack message = %q", ack.Message)
	}

	list, err := http.Get(ts.URL + "/api/scores")
	if err != nil {
		t.Fatal(err)
	}
	defer list.Body.Close()
	var entries []storage.LeaderboardEntry
	if err := json.NewDecoder(list.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Initials != "KAZ" {
		t.Fatalf("listing = %+v, expected the accepted entry", entries)
	}
}

func TestSubmitRejectsTamperedSession(t *testing.T) {
	_, ts := testServer(t, DefaultConfig())

	// Inflate a keystroke offset after hashing: recompute must catch it.
	payload := validPayload(t, 2)
	payload.SessionData.Keystrokes[0].Offset += 1000

	resp := post(t, ts.URL, payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, expected 400", resp.StatusCode)
	}
	if rej := rejection(t, resp); rej.Reason != submit.ReasonInvalidHash {
		t.Errorf("reason = %q, expected %q", rej.Reason, submit.ReasonInvalidHash)
	}
}

func TestSubmitRejectsDuplicateHash(t *testing.T) {
	_, ts := testServer(t, DefaultConfig())
	payload := validPayload(t, 3)

	if resp := post(t, ts.URL, payload); resp.StatusCode != http.StatusOK {
		t.Fatalf("first submission status = %d", resp.StatusCode)
	}
	resp := post(t, ts.URL, payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status = %d, expected 409", resp.StatusCode)
	}
	if rej := rejection(t, resp); rej.Reason != submit.ReasonDuplicateHash {
		t.Errorf("reason = %q, expected %q", rej.Reason, submit.ReasonDuplicateHash)
	}
}

func TestSubmitRateLimited(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 2
	_, ts := testServer(t, cfg)

	// Same user, distinct sessions.
	user := uuid.NewString()
	for i := int64(0); i < 2; i++ {
		payload := validPayload(t, 10+i)
		payload.UserID = user
		if resp := post(t, ts.URL, payload); resp.StatusCode != http.StatusOK {
			t.Fatalf("submission %d status = %d", i, resp.StatusCode)
		}
	}

	payload := validPayload(t, 20)
	payload.UserID = user
	resp := post(t, ts.URL, payload)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, expected 429", resp.StatusCode)
	}
	if rej := rejection(t, resp); rej.Reason != submit.ReasonRateLimited {
		t.Errorf("reason = %q, expected %q", rej.Reason, submit.ReasonRateLimited)
	}
}

func TestSubmitValidation(t *testing.T) {
	_, ts := testServer(t, DefaultConfig())

	cases := map[string]func(*submit.Payload){
		"missing user":      func(p *submit.Payload) { p.UserID = "" },
		"bad token":         func(p *submit.Payload) { p.UserID = "not-a-uuid" },
		"lowercase":         func(p *submit.Payload) { p.Initials = "kaz" },
		"too long":          func(p *submit.Payload) { p.Initials = "KAZZ" },
		"missing hash":      func(p *submit.Payload) { p.SessionHash = "" },
		"missing session":   func(p *submit.Payload) { p.SessionData = nil },
		"absurd wpm":        func(p *submit.Payload) { p.SessionData.Stats.WPM = 400 },
		"negative accuracy": func(p *submit.Payload) { p.SessionData.Stats.Accuracy = -0.1 },
		"zero stage":        func(p *submit.Payload) { p.SessionData.Stage = 0 },
		"no keystrokes":     func(p *submit.Payload) { p.SessionData.Keystrokes = nil },
	}

	for name, mutate := range cases {
		payload := validPayload(t, 30)
		mutate(&payload)
		resp := post(t, ts.URL, payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, expected 400", name, resp.StatusCode)
			continue
		}
		if rej := rejection(t, resp); rej.Reason != submit.ReasonValidationFailed {
			t.Errorf("%s: reason = %q, expected %q", name, rej.Reason, submit.ReasonValidationFailed)
		}
	}
}

func TestFeedBroadcastsAcceptedEntries(t *testing.T) {
	srv, ts := testServer(t, DefaultConfig())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Wait for registration before submitting.
	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if srv.Hub().ClientCount() != 1 {
		t.Fatal("feed client never registered")
	}

	if resp := post(t, ts.URL, validPayload(t, 40)); resp.StatusCode != http.StatusOK {
		t.Fatalf("submission status = %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var entry storage.LeaderboardEntry
	if err := conn.ReadJSON(&entry); err != nil {
		t.Fatalf("feed delivered nothing: %v", err)
	}
	if entry.Initials != "KAZ" {
		t.Errorf("broadcast entry = %+v", entry)
	}
}
