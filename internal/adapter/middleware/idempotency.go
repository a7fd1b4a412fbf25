package middleware

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// Lock held while the first attempt is still running; released by
	// overwriting the entry with the final response.
	inProgressTTL = 60 * time.Second
	// Tolerated client/server clock skew on Ax-Request-At.
	maxClockSkew = 10 * time.Minute

	headerRequestID = "Ax-Request-Id"
	headerRequestAt = "Ax-Request-At"
	headerUserID    = "X-User-Id"
)

// storedResponse is what the replay store keeps per (user, request id) pair.
// While the first attempt runs only InProgress and BodyDigest are set; the
// finished attempt overwrites the entry with the captured response.
type storedResponse struct {
	InProgress bool   `json:"in_progress"`
	Code       int    `json:"code"`
	Body       []byte `json:"body"`
	BodyDigest string `json:"body_digest"`
	RequestID  string `json:"request_id"`
	StoredAtMS int64  `json:"stored_at_ms"`
}

// bodyCapture tees the handler's response so it can be replayed later.
type bodyCapture struct {
	http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// IdempotencyMiddleware makes mutating requests safe to retry: a repeat of
// the same Ax-Request-Id by the same user replays the stored response, a
// repeat with a different payload is rejected, and a repeat while the first
// attempt is still running gets a conflict. Reads pass through untouched.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	store := replayStore{rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(headerRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + headerRequestID})
			}
			if !validRequestID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + headerRequestID + " format"})
			}

			reqAt, err := parseRequestAt(req.Header.Get(headerRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := time.Now().UTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": headerRequestAt + " too skewed"})
			}

			userID := strings.TrimSpace(req.Header.Get(headerUserID))
			if userID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + headerUserID})
			}
			if !reHex32.MatchString(userID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + headerUserID})
			}

			// The body is consumed twice: once for the digest, once by the
			// handler's bind.
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			digest := bodyDigest(body)

			key := idempotencyKey(req.Method, c.Path(), userID, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			won, err := store.lock(ctx, key, storedResponse{
				InProgress: true,
				BodyDigest: digest,
				RequestID:  reqID,
				StoredAtMS: reqAt.UnixMilli(),
			})
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !won {
				prev, err := store.get(ctx, key)
				if err != nil {
					log.Printf("idempotency: load %s: %v", key, err)
				}
				if prev.BodyDigest != "" && prev.BodyDigest != digest {
					return c.JSON(http.StatusConflict, map[string]string{"error": headerRequestID + " reused with different body"})
				}
				if !prev.InProgress && prev.Code != 0 && len(prev.Body) > 0 {
					return c.Blob(prev.Code, echo.MIMEApplicationJSON, prev.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			capture := &bodyCapture{ResponseWriter: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = capture
			if err := next(c); err != nil {
				c.Error(err)
			}

			// Store with a background context so a client disconnect does
			// not leave the in-progress lock behind.
			_ = store.put(context.Background(), key, storedResponse{
				Code:       capture.code,
				Body:       capture.buf.Bytes(),
				BodyDigest: digest,
				RequestID:  reqID,
				StoredAtMS: reqAt.UnixMilli(),
			}, ttl)
			return nil
		}
	}
}
