package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/services"
)

// sourceMessage turns a data source failure into the inline message shown
// on the page.
func sourceMessage(label string, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, services.ErrSourceNotConfigured) {
		return label + ": planilla sin configurar. Configúrela en Configuración."
	}
	log.Printf("sources: %s: %v", label, err)
	return label + ": no se pudo leer la planilla (" + err.Error() + ")."
}

// joinMessages joins the non-empty messages.
func joinMessages(msgs ...string) string {
	var out []string
	for _, m := range msgs {
		if m != "" {
			out = append(out, m)
		}
	}
	return strings.Join(out, " ")
}

// redirect sends HTMX requests to url through HX-Redirect and everything
// else through a 303.
func redirect(e *core.RequestEvent, url string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusSeeOther, url)
}
