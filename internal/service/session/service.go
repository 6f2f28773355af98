package session

import (
	"time"

	"github.com/google/uuid"
)

// Service mints and validates per-visitor session keys. A key is an opaque
// UUID stored in a cookie; every cart read/write is scoped by it. Anything
// malformed presented by a client is discarded and replaced with a fresh key.
type Service struct {
	cookieName string
	ttl        time.Duration
}

func New(cookieName string, ttl time.Duration) *Service {
	return &Service{cookieName: cookieName, ttl: ttl}
}

func (s *Service) Mint() string {
	return uuid.NewString()
}

// Valid accepts only the canonical dashed lowercase form that Mint produces.
// uuid.Parse also takes braced, URN and raw-hex spellings; those would scope
// a visitor's cart under a different key than the canonical one, so they are
// treated as malformed and replaced.
func (s *Service) Valid(key string) bool {
	id, err := uuid.Parse(key)
	return err == nil && id.String() == key
}

func (s *Service) CookieName() string {
	return s.cookieName
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
