// Package respond renders RFC 9457 problem details for responses produced
// outside huma handlers (router fallbacks, panics) and builds redirect errors.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/huma-contacts/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"
	errorSchemaPath        = "/schemas/ErrorModel.json"

	msgNotFound          = "resource not found"
	msgInternalServerErr = "internal server error"
)

// problem mirrors huma.ErrorModel with the $schema link huma adds to its own responses.
type problem struct {
	Schema string              `json:"$schema,omitempty" cbor:"$schema,omitempty"`
	Title  string              `json:"title,omitempty"   cbor:"title,omitempty"`
	Status int                 `json:"status,omitempty"  cbor:"status,omitempty"`
	Detail string              `json:"detail,omitempty"  cbor:"detail,omitempty"`
	Errors []*huma.ErrorDetail `json:"errors,omitempty"  cbor:"errors,omitempty"`
}

// WriteProblem writes a problem document, as CBOR when the client prefers it.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	schemaURL := schemaLink(r)
	p := problem{
		Schema: schemaURL,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	var (
		body []byte
		err  error
		ct   = contentTypeProblemJSON
	)
	if selectFormat(r.Header.Get("Accept")) {
		ct = contentTypeProblemCBOR
		body, err = cbor.Marshal(p)
	} else {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		err = enc.Encode(p)
		body = buf.Bytes()
	}
	if err != nil {
		logging.LogError(r.Context(), "failed to encode problem", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", ct)
	h.Set("Link", "<"+schemaURL+">; rel=\"describedBy\"")
	ensureVary(h, "Origin", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func schemaLink(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host + errorSchemaPath
}

// NotFoundHandler answers unmatched routes with a 404 problem.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, r, http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler answers with 405 and an Allow header listing the methods the path supports.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		WriteProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// WriteRedirect sets Location and writes an empty redirect response.
func WriteRedirect(w http.ResponseWriter, r *http.Request, location string, status int) {
	w.Header().Set("Location", location)
	w.WriteHeader(status)
	logging.LogDebug(r.Context(), "redirect", zap.Int("status", status), zap.String("location", location))
}

// SeeOther returns a huma error that answers with 303 See Other to location.
// Handlers return it when a request is turned away without revealing why.
func SeeOther(location string) error {
	headers := make(http.Header)
	headers.Set("Location", location)
	return huma.ErrorWithHeaders(huma.NewError(http.StatusSeeOther, http.StatusText(http.StatusSeeOther)), headers)
}

// Recoverer turns panics into 500 problems. http.ErrAbortHandler is re-panicked
// and nothing is written when the handler already sent a status line.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				logging.LogError(r.Context(), "panic recovered", err, zap.ByteString("stack", debug.Stack()))
				if rw.wroteHeader {
					return
				}
				WriteProblem(rw, r, http.StatusInternalServerError, msgInternalServerErr)
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// responseWriter records whether the status line has been sent.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// allowedMethods asks chi which methods match the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}

	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	var allowed []string
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// mediaRange is one entry of an Accept header.
type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. A missing or
// out-of-range q counts as 1.0; a type without a slash means type/*.
func parseAccept(header string) []mediaRange {
	var out []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		segments := strings.Split(part, ";")
		full := strings.ToLower(strings.TrimSpace(segments[0]))
		if full == "" {
			continue
		}
		typ, subtype, ok := strings.Cut(full, "/")
		if !ok {
			subtype = "*"
		}
		mr := mediaRange{typ: strings.TrimSpace(typ), subtype: strings.TrimSpace(subtype), q: 1.0}
		for _, param := range segments[1:] {
			k, v, found := strings.Cut(strings.TrimSpace(param), "=")
			if !found || strings.TrimSpace(k) != "q" {
				continue
			}
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && parsed >= 0 && parsed <= 1 {
				mr.q = parsed
			}
			break
		}
		out = append(out, mr)
	}
	return out
}

// specificityFor scores how closely mr names the concrete type; 0 means no match.
func (mr mediaRange) specificityFor(typ, subtype string) int {
	switch {
	case mr.typ == "*" && mr.subtype == "*":
		return 1
	case mr.typ != typ:
		return 0
	case mr.subtype == "*":
		return 2
	case strings.HasPrefix(mr.subtype, "*+"):
		if strings.HasSuffix(subtype, mr.subtype[1:]) {
			return 3
		}
		return 0
	case mr.subtype == subtype:
		if strings.Contains(subtype, "+") {
			return 5
		}
		return 4
	default:
		return 0
	}
}

type rank struct {
	q           float64
	specificity int
}

func (a rank) beats(b rank) bool {
	if a.q != b.q {
		return a.q > b.q
	}
	return a.specificity > b.specificity
}

func bestRank(ranges []mediaRange, subtypes ...string) rank {
	var best rank
	for _, mr := range ranges {
		if mr.q <= 0 {
			continue
		}
		for _, st := range subtypes {
			if sp := mr.specificityFor("application", st); sp > 0 {
				if r := (rank{q: mr.q, specificity: sp}); r.beats(best) {
					best = r
				}
			}
		}
	}
	return best
}

// selectFormat reports whether the client prefers CBOR. Ranking is q-value
// first, specificity second; ties and unknown types fall back to JSON.
func selectFormat(accept string) bool {
	ranges := parseAccept(accept)
	cborRank := bestRank(ranges, "cbor", "problem+cbor")
	if cborRank.q == 0 {
		return false
	}
	return cborRank.beats(bestRank(ranges, "json", "problem+json"))
}

// ensureVary appends each value to Vary unless already listed.
func ensureVary(h http.Header, values ...string) {
	present := make(map[string]struct{})
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			present[strings.ToLower(strings.TrimSpace(part))] = struct{}{}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := present[key]; ok {
			continue
		}
		present[key] = struct{}{}
		h.Add("Vary", v)
	}
}
