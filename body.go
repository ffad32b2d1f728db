package finalhandler

import (
	"html"
	"net/http"
	"strconv"
	"strings"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Body is a fully rendered response payload.
type Body struct {
	Bytes       []byte
	ContentType string
}

// HTMLBody renders msg as a minimal HTML document titled with the status text. The
// message is escaped, newlines become line breaks and runs of two spaces keep their
// width in the rendered page.
func HTMLBody(status int, msg string) Body {
	text := html.EscapeString(msg)
	text = strings.ReplaceAll(text, "\n", "<br>")
	text = strings.ReplaceAll(text, "  ", " &nbsp;")

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(StatusText(status)) + "</title>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("<pre>" + text + "</pre>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	return Body{Bytes: []byte(b.String()), ContentType: contentTypeHTML}
}

// TextBody renders msg as plain text terminated by a newline.
func TextBody(_ int, msg string) Body {
	return Body{Bytes: []byte(msg + "\n"), ContentType: contentTypeText}
}

// StatusText returns the reason phrase for the status code, or the code itself
// when the status is not a registered one.
func StatusText(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}

	return strconv.Itoa(status)
}
