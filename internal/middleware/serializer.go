package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// Serializer runs the rest of the chain while holding lock, so handlers that
// touch the in-memory stores never overlap. Background jobs share the lock.
func Serializer(lock sync.Locker) gin.HandlerFunc {
	return func(c *gin.Context) {
		lock.Lock()
		defer lock.Unlock()
		c.Next()
	}
}
