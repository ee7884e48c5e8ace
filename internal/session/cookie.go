package session

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Cookie identifies a visitor session. The id is a random handle into the
// Store, not a credential.
type Cookie struct {
	Name string
	TTL  time.Duration
}

// ID returns the visitor's session id, minting and setting a new cookie on
// first touch.
func (k Cookie) ID(c *gin.Context) string {
	if sid, err := c.Cookie(k.Name); err == nil && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	c.SetCookie(k.Name, sid, int(k.TTL.Seconds()), "/", "", false, true)
	return sid
}
