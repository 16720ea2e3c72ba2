package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioSmsSender sends SMS through the Twilio Messages endpoint, a single
// form-encoded POST authenticated with the account SID and auth token.
type TwilioSmsSender struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
	baseURL    string
}

func NewTwilioSmsSender(accountSID, authToken, from string) *TwilioSmsSender {
	return &TwilioSmsSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.twilio.com",
	}
}

func (s *TwilioSmsSender) Send(to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building SMS request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sending SMS: twilio returned status %d", resp.StatusCode)
	}
	return nil
}
