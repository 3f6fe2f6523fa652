package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/barbackhq/pos-backend/api/responses"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
	pkgredis "github.com/barbackhq/pos-backend/pkg/redis"
)

const idempotencyHeader = "Idempotency-Key"

type idempotencyRule struct {
	method string
	match  func(path string) bool
	ttl    time.Duration
}

var (
	orderClosePath    = regexp.MustCompile(`^/api/v1/orders/[^/]+/close$`)
	paymentRefundPath = regexp.MustCompile(`^/api/v1/payments/[^/]+/refund$`)
)

// Money-moving and order-creating routes must carry an idempotency key so
// that register retries never double-charge or double-fire tickets.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, match: exactPath("/api/v1/cart/checkout"), ttl: 24 * time.Hour},
	{method: http.MethodPost, match: exactPath("/api/v1/orders"), ttl: 24 * time.Hour},
	{method: http.MethodPost, match: orderClosePath.MatchString, ttl: 7 * 24 * time.Hour},
	{method: http.MethodPost, match: paymentRefundPath.MatchString, ttl: 7 * 24 * time.Hour},
}

func exactPath(want string) func(string) bool {
	return func(path string) bool { return path == want }
}

type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers"`
	RequestHash string            `json:"request_hash"`
}

type responseCapture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *responseCapture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *responseCapture) Write(p []byte) (int, error) {
	c.buf.Write(p)
	return c.ResponseWriter.Write(p)
}

// Idempotency replays the stored response when a key is reused with an
// identical request, and rejects reuse with a different payload.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := matchRule(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header is required").
						WithDetails(map[string]string{"header": idempotencyHeader}))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashRequest(r.Method, r.URL.Path, body)
			scope, _ := OrganizationIDFromContext(r.Context())
			storeKey := store.IdempotencyKey(scope.String(), key)

			if raw, getErr := store.Get(r.Context(), storeKey); getErr == nil {
				replayStored(r, w, logg, raw, requestHash)
				return
			} else if !pkgredis.IsNil(getErr) {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "idempotency store unavailable"))
				return
			}

			capture := &responseCapture{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			// Only successful outcomes are pinned; a failed attempt may be
			// retried with the same key.
			if capture.status >= 200 && capture.status < 300 {
				record := idempotencyRecord{
					Status:      capture.status,
					Body:        base64.StdEncoding.EncodeToString(capture.buf.Bytes()),
					Headers:     map[string]string{"Content-Type": capture.Header().Get("Content-Type")},
					RequestHash: requestHash,
				}
				encoded, marshalErr := json.Marshal(record)
				if marshalErr == nil {
					if _, setErr := store.SetNX(r.Context(), storeKey, string(encoded), rule.ttl); setErr != nil && logg != nil {
						logg.Warn(r.Context(), "idempotency record not stored")
					}
				}
			}
		})
	}
}

func matchRule(r *http.Request) (idempotencyRule, bool) {
	for _, rule := range idempotencyRules {
		if rule.method == r.Method && rule.match(r.URL.Path) {
			return rule, true
		}
	}
	return idempotencyRule{}, false
}

func replayStored(r *http.Request, w http.ResponseWriter, logg *logger.Logger, raw, requestHash string) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding idempotency record"))
		return
	}

	if record.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request").
				WithDetails(map[string]string{"header": idempotencyHeader}))
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding idempotency body"))
		return
	}

	for name, value := range record.Headers {
		if value != "" {
			w.Header().Set(name, value)
		}
	}
	w.Header().Set("X-Idempotent-Replay", "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(decoded)
}

func hashRequest(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte("\n"))
	sum.Write([]byte(path))
	sum.Write([]byte("\n"))
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}
