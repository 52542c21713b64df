package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// Toast kinds understood by static/app.js.
const (
	toastSuccess = "success"
	toastError   = "error"
	toastWarning = "warning"
	toastInfo    = "info"
)

const flashCookie = "flash_toast"

type toastMessage struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast asks the page to show a toast. HTMX requests get it through the
// HX-Trigger header, merged with any trigger already set; full page loads
// pick it up from a short-lived flash cookie.
func SetToast(e *core.RequestEvent, kind, message string) {
	toast := toastMessage{Message: message, Type: kind}

	triggers := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			log.Printf("toast: replacing non-JSON HX-Trigger %q", existing)
			triggers = map[string]any{}
		}
	}
	triggers["showToast"] = toast
	if data, err := json.Marshal(triggers); err == nil {
		e.Response.Header().Set("HX-Trigger", string(data))
	} else {
		log.Printf("toast: marshal HX-Trigger: %v", err)
	}

	if cookie, err := json.Marshal(toast); err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     flashCookie,
			Value:    url.QueryEscape(string(cookie)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // read by app.js
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast shows message as an error toast and tells HTMX not to swap the
// response body.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, toastError, message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
