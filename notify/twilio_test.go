package notify

import (
	"context"
	"testing"
)

func TestDisabledTwilioOnlyLogs(t *testing.T) {
	n := NewTwilio("", "", "", false)
	if n.Enabled() {
		t.Fatal("notifier without credentials should be disabled")
	}
	if err := n.Send(context.Background(), "+919800000000", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := n.Send(context.Background(), "  ", "hello"); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func TestAddress(t *testing.T) {
	cases := []struct {
		whatsApp bool
		in, want string
	}{
		{false, "+919800000000", "+919800000000"},
		{true, "+919800000000", "whatsapp:+919800000000"},
		{true, "whatsapp:+919800000000", "whatsapp:+919800000000"},
	}
	for _, tc := range cases {
		n := &Twilio{whatsApp: tc.whatsApp}
		if got := n.address(tc.in); got != tc.want {
			t.Errorf("address(%q, whatsapp=%v) = %q, want %q", tc.in, tc.whatsApp, got, tc.want)
		}
	}
}
