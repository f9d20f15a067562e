package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/sukalov/karaokedesk/internal/logger"
)

var (
	ErrUnauthenticated  = errors.New("user must be authenticated")
	ErrPermissionDenied = errors.New("user is not authorized")
)

// TokenVerifier is satisfied by *auth.Client
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AllowList returns the emails allowed into the admin area.
// ok is false when the list doesn't exist at all.
type AllowList interface {
	Emails(ctx context.Context) (emails []string, ok bool, err error)
}

// Identity is a verified caller
type Identity struct {
	UID        string `json:"uid"`
	Email      string `json:"email"`
	AdminClaim bool   `json:"adminClaim"`
}

type Checker struct {
	verifier  TokenVerifier
	allowList AllowList
}

func NewChecker(verifier TokenVerifier, allowList AllowList) *Checker {
	return &Checker{verifier: verifier, allowList: allowList}
}

// Authenticate verifies a Firebase ID token, with or without the "Bearer " prefix
func (c *Checker) Authenticate(ctx context.Context, bearer string) (Identity, error) {
	idToken := strings.TrimSpace(bearer)
	if len(idToken) >= 7 && strings.EqualFold(idToken[:7], "bearer ") {
		idToken = strings.TrimSpace(idToken[7:])
	}
	if idToken == "" {
		return Identity{}, ErrUnauthenticated
	}

	token, err := c.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, errors.Join(ErrUnauthenticated, err)
	}

	id := Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if admin, ok := token.Claims["admin"].(bool); ok {
		id.AdminClaim = admin
	}
	return id, nil
}

// IsAdmin lets the admin claim through first and falls back to the
// allow-list. Lookup failures count as not admin.
func (c *Checker) IsAdmin(ctx context.Context, id Identity) bool {
	if id.AdminClaim {
		return true
	}

	allowed, err := c.inAllowList(ctx, id.Email)
	if err != nil {
		logger.Error(fmt.Sprintf("Authorization check failed\nEmail: %s\nError: %v", id.Email, err))
		return false
	}
	return allowed
}

// CheckAllowList only consults the allow-list, ignoring the admin claim
func (c *Checker) CheckAllowList(ctx context.Context, id Identity) error {
	allowed, err := c.inAllowList(ctx, id.Email)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}
	return nil
}

func (c *Checker) inAllowList(ctx context.Context, email string) (bool, error) {
	emails, ok, err := c.allowList.Emails(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		logger.Info("Settings document does not exist.")
		return false, nil
	}
	if email == "" {
		return false, nil
	}

	for _, allowed := range emails {
		if allowed == email {
			return true, nil
		}
	}
	return false, nil
}
