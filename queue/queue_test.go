package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEncodeEnvelope(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	body, err := encodeEnvelope("invoice.settled", map[string]any{"invoiceNumber": "INV-1"}, at)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Type != "invoice.settled" || !env.OccurredAt.Equal(at) || env.ID == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if string(env.Payload) != `{"invoiceNumber":"INV-1"}` {
		t.Fatalf("payload = %s", env.Payload)
	}
}

func TestFormatLogLine(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	body, _ := encodeEnvelope("payment.recorded", map[string]any{"mode": "CASH", "amount": 2600}, at)

	line, err := FormatLogLine(body)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := `[2026-03-01T10:00:00Z] payment.recorded | amount=2600 | mode="CASH"` + "\n"
	if line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func TestFormatLogLineRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":     "{",
		"missing type": `{"payload":{}}`,
		"bad payload":  `{"type":"x","payload":[1,2]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FormatLogLine([]byte(body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestConsumerHandleAppends(t *testing.T) {
	c := NewConsumer("amqp://unused")
	c.LogPath = filepath.Join(t.TempDir(), "nested", "settlement.log")

	for _, typ := range []string{"invoice.settled", "invoice.deleted"} {
		body, _ := encodeEnvelope(typ, map[string]any{"invoiceId": 1}, time.Now())
		if err := c.handle(body); err != nil {
			t.Fatalf("handle %s: %v", typ, err)
		}
	}

	data, err := os.ReadFile(c.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "invoice.deleted") {
		t.Fatalf("second line = %q", lines[1])
	}
}
