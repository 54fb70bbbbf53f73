// Package ticket issues signed, encrypted check-in tickets carrying a
// reservation code.
package ticket

import (
	"errors"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	name   = "mealsd_ticket"
	MaxAge = 30 * 24 * time.Hour
)

var ErrInvalid = errors.New("invalid or expired ticket")

type Codec struct {
	sc *securecookie.SecureCookie
}

// New returns a Codec. hashKey should be 32 or 64 bytes; blockKey 16, 24
// or 32 bytes.
func New(hashKey, blockKey []byte) *Codec {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(MaxAge.Seconds()))
	return &Codec{sc: sc}
}

func (c *Codec) Issue(code string) (string, error) {
	val := map[string]string{"code": code, "v": "1"}
	return c.sc.Encode(name, val)
}

// Code returns the reservation code inside a ticket.
func (c *Codec) Code(ticket string) (string, error) {
	var val map[string]string
	if err := c.sc.Decode(name, ticket, &val); err != nil {
		return "", ErrInvalid
	}
	code := val["code"]
	if code == "" {
		return "", ErrInvalid
	}
	return code, nil
}
