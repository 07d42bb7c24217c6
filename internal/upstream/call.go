package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Call describes one fully-specified outbound request. A Call is built once,
// issued once, and produces exactly one terminal outcome. Resource
// identifiers belong in Path or Query, never in the body of GET-style calls.
type Call struct {
	Method  string
	Path    string        // upstream-relative, e.g. "/resumes/"
	Query   url.Values    // nil when no query parameters
	Token   string        // bearer token; empty for unauthenticated calls
	Timeout time.Duration // 0 = client default

	body        io.Reader
	contentType string
}

// WithJSON returns a copy of the call carrying a JSON-encoded body.
func (c Call) WithJSON(v any) (Call, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return c, fmt.Errorf("upstream: marshal body: %w", err)
	}
	c.body = bytes.NewReader(data)
	c.contentType = "application/json"
	return c, nil
}

// WithForm returns a copy of the call carrying a form-encoded body.
func (c Call) WithForm(vals url.Values) Call {
	c.body = strings.NewReader(vals.Encode())
	c.contentType = "application/x-www-form-urlencoded"
	return c
}

// WithMultipart returns a copy of the call carrying a streaming multipart
// body with a title part and a file part. The file bytes flow through a
// pipe into the outbound request; they are never buffered whole.
func (c Call) WithMultipart(title, filename, contentType string, file io.Reader) Call {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		if err := mw.WriteField("title", title); err != nil {
			pw.CloseWithError(fmt.Errorf("upstream: write title part: %w", err))
			return
		}
		part, err := filePart(mw, filename, contentType)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("upstream: create file part: %w", err))
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(fmt.Errorf("upstream: stream file part: %w", err))
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	c.body = pr
	c.contentType = mw.FormDataContentType()
	return c
}

// filePart creates the "file" form part carrying the original content type;
// CreateFormFile would hardcode application/octet-stream.
func filePart(mw *multipart.Writer, filename, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return mw.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// URL renders the full request URL against the given base.
func (c Call) URL(base string) string {
	u := base + c.Path
	if len(c.Query) > 0 {
		u += "?" + c.Query.Encode()
	}
	return u
}
