package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// Header carries the API key.
const Header = "X-API-Key"

// Query is the fallback query parameter carrying the API key.
const Query = "api_key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Skip lists path prefixes served without a key.
	Skip []string
}

// New returns a middleware rejecting requests without the configured key.
// The key is read from the X-API-Key header, then from the api_key query.
func New(cfg Config) fiber.Handler {
	next := func(c *fiber.Ctx) bool {
		if cfg.ApiKey == "" {
			return true
		}
		for _, prefix := range cfg.Skip {
			if strings.HasPrefix(c.Path(), prefix) {
				return true
			}
		}
		return false
	}
	validate := func(_ *fiber.Ctx, key string) (bool, error) {
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) == 1 {
			return true, nil
		}
		return false, keyauth.ErrMissingOrMalformedAPIKey
	}
	unauthorized := func(c *fiber.Ctx, _ error) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	fromQuery := keyauth.New(keyauth.Config{
		KeyLookup:    "query:" + Query,
		Validator:    validate,
		ErrorHandler: unauthorized,
	})
	return keyauth.New(keyauth.Config{
		Next:      next,
		KeyLookup: "header:" + Header,
		Validator: validate,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Absent header falls back to the query parameter.
			if errors.Is(err, keyauth.ErrMissingOrMalformedAPIKey) && c.Get(Header) == "" {
				return fromQuery(c)
			}
			return unauthorized(c, err)
		},
	})
}
