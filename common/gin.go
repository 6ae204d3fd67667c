package common

import (
	"bytes"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/common/ctxkey"
)

// GetRequestBody reads the raw request body once and caches it on the context
// so later handlers (and the panic recover middleware) can re-read it.
func GetRequestBody(c *gin.Context) ([]byte, error) {
	if body, ok := c.Get(ctxkey.RequestBody); ok {
		return body.([]byte), nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	_ = c.Request.Body.Close()
	c.Set(ctxkey.RequestBody, body)
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	return body, nil
}
