// Package statesink has the StateSink implementations the build store writes through.
package statesink

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/schema"
)

// MemorySink keeps the state in memory. It is used by the CLI and the MCP tools.
type MemorySink struct {
	mu     sync.RWMutex
	values url.Values
	writes int
}

var _ contract.StateSink = &MemorySink{} // Compile-time check

// NewMemorySink creates a sink holding a copy of values.
func NewMemorySink(values url.Values) *MemorySink {
	return &MemorySink{values: cloneValues(values)}
}

// NewMemorySinkFromQuery creates a sink from a raw query string. Malformed
// pairs are dropped.
func NewMemorySinkFromQuery(raw string) *MemorySink {
	u := &url.URL{RawQuery: trimQuestion(raw)}
	return NewMemorySink(u.Query())
}

// ReadAll implements the StateSink interface.
func (m *MemorySink) ReadAll() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneValues(m.values)
}

// WriteAll implements the StateSink interface.
func (m *MemorySink) WriteAll(values url.Values) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = cloneValues(values)
	m.writes++
	return nil
}

// Writes returns how many times WriteAll was called.
func (m *MemorySink) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Query returns the held state as an ordered query string.
func (m *MemorySink) Query() string {
	return schema.EncodeOrdered(m.ReadAll())
}

// URLSink reads from and writes to the query of a URL, replacing it in place.
type URLSink struct {
	u *url.URL
}

var _ contract.StateSink = &URLSink{} // Compile-time check

// NewURLSink wraps u. The sink mutates u.RawQuery on every write.
func NewURLSink(u *url.URL) *URLSink {
	return &URLSink{u: u}
}

// ReadAll implements the StateSink interface.
func (s *URLSink) ReadAll() url.Values {
	return s.u.Query()
}

// WriteAll implements the StateSink interface.
func (s *URLSink) WriteAll(values url.Values) error {
	s.u.RawQuery = schema.EncodeOrdered(values)
	return nil
}

// URL returns the wrapped URL.
func (s *URLSink) URL() *url.URL {
	return s.u
}

// RedirectSink reads the state from a request and answers a write with a
// 303 redirect to the same path carrying the new query.
type RedirectSink struct {
	w       http.ResponseWriter
	r       *http.Request
	values  url.Values
	path    string
	written bool
}

var _ contract.StateSink = &RedirectSink{} // Compile-time check

// NewRedirectSink reads the state from the request form. The redirect target
// is path, or "/" when empty.
func NewRedirectSink(w http.ResponseWriter, r *http.Request, path string) *RedirectSink {
	if path == "" {
		path = "/"
	}
	values := url.Values{}
	if err := r.ParseForm(); err == nil {
		values = cloneValues(r.Form)
	}
	return &RedirectSink{w: w, r: r, values: values, path: path}
}

// ReadAll implements the StateSink interface.
func (s *RedirectSink) ReadAll() url.Values {
	return cloneValues(s.values)
}

// WriteAll implements the StateSink interface.
func (s *RedirectSink) WriteAll(values url.Values) error {
	s.values = cloneValues(values)
	s.written = true
	target := s.path
	if q := schema.EncodeOrdered(values); q != "" {
		target += "?" + q
	}
	http.Redirect(s.w, s.r, target, http.StatusSeeOther)
	return nil
}

// Written reports whether a redirect has been sent.
func (s *RedirectSink) Written() bool {
	return s.written
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func trimQuestion(raw string) string {
	if len(raw) > 0 && raw[0] == '?' {
		return raw[1:]
	}
	return raw
}
