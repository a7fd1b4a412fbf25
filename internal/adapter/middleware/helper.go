package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "idemp:lib:"

// idempotencyKey scopes the replay entry to the user and request segments
// so two users sending the same Ax-Request-Id never collide.
func idempotencyKey(method, route, userID, requestID string) string {
	return keyPrefix + strings.ToLower(method) + ":" + route + ":" + userID + ":" + requestID
}

func bodyDigest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
)

func validRequestID(id string) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	return reUUID.MatchString(id) || reHex32.MatchString(id)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with
// an explicit zone. Naive local timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + headerRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(headerRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// replayStore keeps one storedResponse per idempotency key in redis.
type replayStore struct {
	rdb *redis.Client
}

// lock claims the key for the first attempt; false means someone else holds
// it (in progress or finished).
func (s replayStore) lock(ctx context.Context, key string, rec storedResponse) (bool, error) {
	payload, _ := json.Marshal(rec)
	return s.rdb.SetNX(ctx, key, payload, inProgressTTL).Result()
}

func (s replayStore) get(ctx context.Context, key string) (storedResponse, error) {
	var rec storedResponse
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return rec, err
	}
	_ = json.Unmarshal(v, &rec)
	return rec, nil
}

func (s replayStore) put(ctx context.Context, key string, rec storedResponse, ttl time.Duration) error {
	payload, _ := json.Marshal(rec)
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}
