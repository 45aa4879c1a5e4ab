// Package mailmime renders logical emails into the raw transport
// encoding the mail provider requires: an RFC-822 style message with a
// multipart/alternative body, framed in URL-safe base64.
//
// Encoding is pure and never fails on well-formed input. Recipient
// validation is the caller's concern; the encoder accepts whatever
// strings it is given.
package mailmime

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"html"
	"mime"
	"regexp"
	"strings"
	"time"
)

// htmlDocPrefix and htmlDocSuffix wrap the rich-text body in a minimal
// HTML document for the text/html alternative part.
const (
	htmlDocPrefix = "<!DOCTYPE html><html><body>"
	htmlDocSuffix = "</body></html>"
)

// Encode renders a logical email into the provider's raw transport
// string. The recipients, subject and body come through as given; the
// multipart boundary is random, so two encodings of the same email
// differ only in the boundary markers.
func Encode(to, cc, bcc []string, subject, body, inReplyTo string) string {
	boundary := randomBoundary()

	var msg strings.Builder
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	if len(cc) > 0 {
		msg.WriteString("Cc: " + strings.Join(cc, ", ") + "\r\n")
	}
	if len(bcc) > 0 {
		msg.WriteString("Bcc: " + strings.Join(bcc, ", ") + "\r\n")
	}
	msg.WriteString("Subject: " + encodeHeader(subject) + "\r\n")
	if inReplyTo != "" {
		// Both headers, not just one: References drives conversation
		// grouping on the provider side while some clients only read
		// In-Reply-To.
		msg.WriteString("In-Reply-To: " + inReplyTo + "\r\n")
		msg.WriteString("References: " + inReplyTo + "\r\n")
	}
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(StripTags(body) + "\r\n\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlDocPrefix + body + htmlDocSuffix + "\r\n\r\n")

	msg.WriteString("--" + boundary + "--")

	// URL-safe alphabet with padding stripped is mandated by the
	// transport API; standard base64 is rejected.
	return base64.RawURLEncoding.EncodeToString([]byte(msg.String()))
}

var (
	lineBreakTags = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>|</h[1-6]>|</tr>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
)

// StripTags derives the plain-text rendition of a rich-text body:
// block-level closers become newlines, remaining markup is removed and
// entities are unescaped.
func StripTags(body string) string {
	text := lineBreakTags.ReplaceAllString(body, "\n")
	text = anyTag.ReplaceAllString(text, "")
	return html.UnescapeString(text)
}

// encodeHeader applies RFC 2047 B-encoding when the value carries
// non-ASCII characters, and passes ASCII through untouched.
func encodeHeader(s string) string {
	return mime.BEncoding.Encode("UTF-8", s)
}

// randomBoundary produces a delimiter unlikely to collide with body
// content. The base64url alphabet is boundary-legal under RFC 2046.
func randomBoundary() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("officelink-%d", time.Now().UnixNano())
	}
	return "officelink-" + base64.RawURLEncoding.EncodeToString(b)
}
