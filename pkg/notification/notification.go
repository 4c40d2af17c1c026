// Package notification defines the channels a storefront event can be
// delivered through and the Telegram Bot API client behind the telegram
// channel.
//
// Define a Notification:
//
//	type OrderPlaced struct { Order models.Order }
//	func (n OrderPlaced) Via() []string { return []string{notification.Telegram, notification.Feed} }
//	func (n OrderPlaced) ToTelegram() notification.TelegramData {
//	    return notification.TelegramData{Text: "🛒 <b>New order!</b>"}
//	}
//
// Delivery itself is asynchronous: the application dispatcher turns each
// channel payload into a queue job, so a slow or failing Bot API never blocks
// the request that triggered it.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shashiranjanraj/storefront/pkg/http"
)

// Channel names returned by Via.
const (
	Telegram = "telegram"
	Feed     = "feed"
)

// Notification is the interface every notification must satisfy.
type Notification interface {
	Via() []string
}

// TelegramData is one Bot API message. Text is HTML; when PhotoURL is set
// the message is sent as a photo with Text as its caption.
type TelegramData struct {
	ChatID   string `json:"chat_id"`
	Text     string `json:"text"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Telegrammable can be implemented to support the telegram channel.
type Telegrammable interface {
	ToTelegram() TelegramData
}

// FeedEvent is pushed to connected admin dashboards over WebSocket.
type FeedEvent struct {
	Type string    `json:"type"`
	Text string    `json:"text"`
	Data any       `json:"data,omitempty"`
	At   time.Time `json:"at"`
}

// Feedable can be implemented to support the feed channel.
type Feedable interface {
	ToFeed() FeedEvent
}

// ErrDisabled is returned by a client that has no bot token.
var ErrDisabled = errors.New("notification: telegram bot is not configured")

// Telegram limits; longer captions are rejected by the API.
const (
	maxCaption = 1024
	maxText    = 4096
)

// TelegramClient talks to the Bot API over pkg/http.
type TelegramClient struct {
	apiURL  string
	token   string
	timeout time.Duration
}

// NewTelegramClient returns a client for token. An empty token yields a
// disabled client whose Send returns ErrDisabled.
func NewTelegramClient(apiURL, token string) *TelegramClient {
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}
	return &TelegramClient{
		apiURL:  strings.TrimRight(apiURL, "/"),
		token:   token,
		timeout: 15 * time.Second,
	}
}

// Enabled reports whether a bot token is configured.
func (c *TelegramClient) Enabled() bool { return c != nil && c.token != "" }

type apiReply struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers d via sendPhoto when it carries a photo and sendMessage
// otherwise. Both use HTML parse mode. A send is a single attempt: a
// timed-out request may already have been posted, and retries belong to the
// queue.
func (c *TelegramClient) Send(ctx context.Context, d TelegramData) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if d.ChatID == "" {
		return errors.New("notification: telegram chat id is empty")
	}

	method := "sendMessage"
	body := map[string]any{
		"chat_id":    d.ChatID,
		"parse_mode": "HTML",
	}
	if d.PhotoURL != "" {
		method = "sendPhoto"
		body["photo"] = d.PhotoURL
		body["caption"] = clip(d.Text, maxCaption)
	} else {
		body["text"] = clip(d.Text, maxText)
	}

	resp, err := http.Post(c.apiURL+"/bot"+c.token+"/"+method).
		Body(body).
		Timeout(c.timeout).
		WithContext(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("notification: telegram %s: %w", method, err)
	}

	var reply apiReply
	_ = resp.JSON(&reply)
	if !resp.OK() || !reply.OK {
		desc := reply.Description
		if desc == "" {
			desc = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("notification: telegram %s: %s", method, desc)
	}
	return nil
}

// clip shortens HTML text s to at most n runes. The cut never falls inside
// a tag or an entity, and tags left open are closed after the ellipsis.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	var (
		open, kept []string
		runes, cut int
	)
	for i := 0; i < len(s); {
		tok := s[i : i+unitLen(s[i:])]
		switch {
		case strings.HasPrefix(tok, "</"):
			if k := len(open); k > 0 && open[k-1] == tagName(tok) {
				open = open[:k-1]
			}
		case len(tok) > 1 && tok[0] == '<':
			open = append(open, tagName(tok))
		}
		runes += utf8.RuneCountInString(tok)
		i += len(tok)

		if runes > n {
			break
		}
		if runes+1+closingLen(open) <= n {
			cut = i
			kept = append(kept[:0], open...)
		}
	}

	var b strings.Builder
	b.WriteString(s[:cut])
	b.WriteString("…")
	for k := len(kept) - 1; k >= 0; k-- {
		b.WriteString("</" + kept[k] + ">")
	}
	return b.String()
}

// unitLen is the byte length of the tag, entity or rune at the start of s.
func unitLen(s string) int {
	switch s[0] {
	case '<':
		if end := strings.IndexByte(s, '>'); end > 0 {
			return end + 1
		}
	case '&':
		if end := strings.IndexByte(s, ';'); end > 0 && end <= 10 {
			return end + 1
		}
	}
	_, size := utf8.DecodeRuneInString(s)
	return size
}

func tagName(tag string) string {
	name := strings.TrimLeft(strings.TrimSuffix(tag, ">"), "</")
	if sp := strings.IndexAny(name, " \t\n"); sp >= 0 {
		name = name[:sp]
	}
	return name
}

func closingLen(open []string) int {
	n := 0
	for _, t := range open {
		n += len(t) + 3
	}
	return n
}
