package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == cookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie set", cookieName)
	return nil
}

func TestAddThenPopAcrossRedirect(t *testing.T) {
	e := echo.New()

	// First request: the handler flashes two messages before redirecting.
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Add(c, CategorySuccess, "Your account has been created alice!")
	Add(c, CategoryInfo, "Check your inbox")

	cookie := flashCookie(t, rec)
	require.NotEmpty(t, cookie.Value)

	// Second request: the next page render pops both, in order.
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	messages := Pop(c)
	require.Len(t, messages, 2)
	assert.Equal(t, Message{Category: CategorySuccess, Text: "Your account has been created alice!"}, messages[0])
	assert.Equal(t, Message{Category: CategoryInfo, Text: "Check your inbox"}, messages[1])

	// Pop clears the cookie so the messages are one-shot.
	cleared := flashCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestPopWithoutMessages(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Nil(t, Pop(c))
}

func TestPopIgnoresMalformedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "not-base64!!"})
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Nil(t, Pop(c))
}
