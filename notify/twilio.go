// Package notify sends guest messages through Twilio SMS or WhatsApp.
package notify

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio implements services.Notifier. With no credentials it only logs the
// message it would have sent.
type Twilio struct {
	client   *twilio.RestClient
	from     string
	whatsApp bool
}

func NewTwilio(accountSID, authToken, from string, whatsApp bool) *Twilio {
	t := &Twilio{from: strings.TrimSpace(from), whatsApp: whatsApp}
	if accountSID != "" && authToken != "" && t.from != "" {
		t.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	return t
}

func (t *Twilio) Enabled() bool { return t.client != nil }

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("notify: empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.client == nil {
		log.Printf("📨 (twilio disabled) to=%s: %s", to, body)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(t.address(to))
	params.SetFrom(t.address(t.from))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("📨 message sent to %s, SID: %s", to, *resp.Sid)
	}
	return nil
}

func (t *Twilio) address(number string) string {
	if t.whatsApp && !strings.HasPrefix(number, "whatsapp:") {
		return "whatsapp:" + number
	}
	return number
}
