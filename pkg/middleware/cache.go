package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetalloc/pkg/logger"
)

const cacheKeyPrefix = "fleetalloc:history"

// cachedPage is the stored form of a cacheable response.
type cachedPage struct {
	StatusCode  int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type cacheCapture struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cc *cacheCapture) WriteHeader(code int) {
	cc.statusCode = code
	cc.ResponseWriter.WriteHeader(code)
}

func (cc *cacheCapture) Write(b []byte) (int, error) {
	cc.body.Write(b)
	return cc.ResponseWriter.Write(b)
}

// ResponseCache serves repeated GETs from Redis for a short TTL. The
// history report tolerates a bounded staleness window; writes are never
// cached. A nil client turns the middleware into a pass-through.
func ResponseCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)

			if raw, err := rdb.Get(r.Context(), key).Bytes(); err == nil {
				var page cachedPage
				if err := json.Unmarshal(raw, &page); err == nil {
					w.Header().Set("Content-Type", page.ContentType)
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(page.StatusCode)
					_, _ = w.Write(page.Body)
					return
				}
			}

			capture := &cacheCapture{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(capture, r)

			if capture.statusCode != http.StatusOK {
				return
			}

			raw, err := json.Marshal(cachedPage{
				StatusCode:  capture.statusCode,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := rdb.Set(r.Context(), key, raw, ttl).Err(); err != nil {
				log.Warn("Failed to store cached response", "key", key, "error", err)
			}
		})
	}
}

func cacheKey(r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", cacheKeyPrefix, sum)
}
