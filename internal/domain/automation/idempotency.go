package automation

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IdempotencyKeyHeader is the request header carrying the per-attempt key
const IdempotencyKeyHeader = "Idempotency-Key"

// NewIdempotencyKey returns "{unix-millis}-{uuid}". A key is generated for every
// call attempt and is not derived from the request content, so a retried
// submission carries a new key and deduplication is left to the backend.
func NewIdempotencyKey() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()
}
