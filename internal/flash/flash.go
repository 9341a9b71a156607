// Package flash carries short-lived categorized status messages across a
// redirect in a cookie. Messages are added before the redirect and popped
// by the next page render.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	cookieName = "quill_flash"
	contextKey = "flash.pending"
)

// Categories mirror the bootstrap alert classes the views key off.
const (
	CategoryInfo    = "info"
	CategorySuccess = "success"
	CategoryWarning = "warning"
	CategoryDanger  = "danger"
)

// Message is a single one-shot status message.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Add appends a message to the flash cookie. Messages added earlier in the
// same request are kept in the echo context so they are not lost when the
// cookie is rewritten.
func Add(c echo.Context, category, text string) {
	messages, _ := c.Get(contextKey).([]Message)
	if messages == nil {
		messages = read(c)
	}
	messages = append(messages, Message{Category: category, Text: text})
	c.Set(contextKey, messages)
	write(c, messages)
}

// Pop returns all pending messages and clears the cookie.
func Pop(c echo.Context) []Message {
	messages := read(c)
	if len(messages) == 0 {
		return nil
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return messages
}

func read(c echo.Context) []Message {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var messages []Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}

func write(c echo.Context, messages []Message) {
	raw, err := json.Marshal(messages)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
