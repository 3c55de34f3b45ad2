package middleware

import (
	"errors"
	"log"
	"strings"

	"forum/backend/models"
	"forum/backend/repository"
	"forum/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// Rule is a method and an ant-style path pattern. In patterns "*" matches
// exactly one path segment and "**" matches any number of segments. An
// empty Method matches every method, and a GET rule also covers HEAD.
type Rule struct {
	Method  string
	Pattern string
}

// Matches reports whether the rule covers the request method and path.
func (r Rule) Matches(method, path string) bool {
	if strings.EqualFold(method, fiber.MethodHead) {
		method = fiber.MethodGet
	}
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	return matchSegments(splitPath(r.Pattern), splitPath(path))
}

type SecurityConfig struct {
	// PermitAll lists the requests that do not need authentication.
	PermitAll []Rule
	Tokens    *utils.TokenService
	Users     repository.UserRepository
	Logger    *log.Logger
}

// Security authenticates bearer tokens and rejects anonymous requests
// that are not covered by cfg.PermitAll. No session state is kept: every
// request carries its own token.
func Security(cfg SecurityConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authErr := authenticate(c, cfg)
		if authErr != nil && !errors.Is(authErr, errNoToken) {
			if !errors.Is(authErr, utils.ErrInvalidToken) && !errors.Is(authErr, errUnknownUser) {
				return authErr
			}
			if cfg.Logger != nil {
				cfg.Logger.Printf("rejected token for %s %s: %v", c.Method(), c.Path(), authErr)
			}
		}

		for _, rule := range cfg.PermitAll {
			if rule.Matches(c.Method(), c.Path()) {
				return c.Next()
			}
		}

		if CurrentUser(c) == nil {
			if errors.Is(authErr, errNoToken) {
				return utils.Unauthorized(c, "Missing authorization token")
			}
			return utils.Unauthorized(c, "Invalid token")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

var (
	errNoToken     = errors.New("no bearer token")
	errUnknownUser = errors.New("token user does not exist")
)

func authenticate(c *fiber.Ctx, cfg SecurityConfig) error {
	token := utils.ExtractBearerToken(c)
	if token == "" {
		return errNoToken
	}

	userID, err := cfg.Tokens.UserID(token)
	if err != nil {
		return err
	}

	found, err := cfg.Users.FindByID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	user, ok := found.Get()
	if !ok {
		return errUnknownUser
	}

	c.Locals(userKey, &user)
	return nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, path []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(path); i++ {
				if matchSegments(rest, path[i:]) {
					return true
				}
			}
			return false
		}
		if len(path) == 0 {
			return false
		}
		if pattern[0] != "*" && pattern[0] != path[0] {
			return false
		}
		pattern, path = pattern[1:], path[1:]
	}
	return len(path) == 0
}
