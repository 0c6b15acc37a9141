package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie describes how the session token is set on responses.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool // false only in local development
}

func (s SessionCookie) set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, token, int(s.TTL.Seconds()), "/", "", s.Secure, true)
}

func (s SessionCookie) clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}
