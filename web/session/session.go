// Package session binds the opaque session cookie to an authenticated user id.
package session

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUserID = "LOGIN_USER_ID"
	storeKey    = "session_store"
	nameKey     = "session_name"
)

// Regenerator is implemented by stores that can issue a fresh session id
// for the current request.
type Regenerator interface {
	Regenerate(r *http.Request, name string) error
}

// Middleware installs the session store for the request under the given cookie name.
func Middleware(name string, store sessions.Store) gin.HandlerFunc {
	inner := sessions.Sessions(name, store)
	return func(c *gin.Context) {
		c.Set(storeKey, store)
		c.Set(nameKey, name)
		inner(c)
	}
}

// Create binds the session to userID and persists it under a new id, so a
// cookie planted before login never becomes authenticated.
func Create(c *gin.Context, userID string) error {
	s := sessions.Default(c)
	if err := regenerate(c); err != nil {
		return err
	}
	s.Set(loginUserID, userID)
	return s.Save()
}

// Resolve returns the user id bound to the request's session.
func Resolve(c *gin.Context) (string, bool) {
	s := sessions.Default(c)
	if obj := s.Get(loginUserID); obj != nil {
		if id, ok := obj.(string); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// Touch re-saves an authenticated session, restarting its idle timeout.
func Touch(c *gin.Context) error {
	id, ok := Resolve(c)
	if !ok {
		return nil
	}
	s := sessions.Default(c)
	s.Set(loginUserID, id)
	return s.Save()
}

// CookieOptioner is implemented by stores that expose the options their
// cookies are issued with.
type CookieOptioner interface {
	CookieOptions() sessions.Options
}

// Destroy deletes the session and expires the cookie with the same
// attributes it was issued with. The error reports a failure of the
// backing store.
func Destroy(c *gin.Context) error {
	opts := sessions.Options{Path: "/"}
	if store, ok := c.Get(storeKey); ok {
		if co, ok := store.(CookieOptioner); ok {
			opts = co.CookieOptions()
		}
	}
	opts.MaxAge = -1

	s := sessions.Default(c)
	s.Clear()
	s.Options(opts)
	return s.Save()
}

func regenerate(c *gin.Context) error {
	store, ok := c.Get(storeKey)
	if !ok {
		return nil
	}
	rg, ok := store.(Regenerator)
	if !ok {
		return nil
	}
	return rg.Regenerate(c.Request, c.GetString(nameKey))
}
