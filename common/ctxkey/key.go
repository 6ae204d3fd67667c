package ctxkey

const (
	// RequestBody caches the raw request body bytes for re-reads.
	// Set in: common.GetRequestBody. Read in: middleware/recover.
	RequestBody = "request_body"

	// RequestId is a per-request unique identifier used in logs and error
	// responses. Set in: middleware.RequestId.
	RequestId = "X-Request-Id"
)
