// Package notifier delivers text and file messages to a chat subscriber.
package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// PacingDelay is the minimum gap between consecutive sends to the same
// subscriber, expected by the chat API.
const PacingDelay = 1500 * time.Millisecond

// Notifier is a chat API client
type Notifier struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
	token      string

	mu       sync.Mutex
	lastSent map[string]time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

type message struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// New returns a new Notifier
func New(base *url.URL, token string) *Notifier {
	return &Notifier{
		BaseURL:    base,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		token:      token,
		lastSent:   make(map[string]time.Time),
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// SendText sends a text message to a subscriber.
func (n *Notifier) SendText(subscriberID, text string) error {
	return n.send(subscriberID, message{Type: "text", Value: text})
}

// SendFile sends a file link to a subscriber.
func (n *Notifier) SendFile(subscriberID, fileURL string) error {
	return n.send(subscriberID, message{Type: "file", Value: fileURL})
}

// pace waits out the remainder of PacingDelay since the last send to the
// subscriber. This is a fixed pacing gap, not a retry.
func (n *Notifier) pace(subscriberID string) {
	n.mu.Lock()
	last, ok := n.lastSent[subscriberID]
	n.mu.Unlock()

	if ok {
		if wait := PacingDelay - n.now().Sub(last); wait > 0 {
			n.sleep(wait)
		}
	}
}

func (n *Notifier) send(subscriberID string, msg message) error {

	n.pace(subscriberID)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("could not marshal message: %v", err)
	}

	p, err := url.Parse(fmt.Sprintf("/api/v1/webhook/subscriber/%s/send_message/", url.PathEscape(subscriberID)))
	if err != nil {
		return fmt.Errorf("could not form message URL: %v", err)
	}
	u := n.BaseURL.ResolveReference(p)

	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("could not make request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-KEY", n.token)

	res, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not call chat API: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("chat API returned status %v", res.StatusCode)
	}

	n.mu.Lock()
	n.lastSent[subscriberID] = n.now()
	n.mu.Unlock()

	return nil
}
