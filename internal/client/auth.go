package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"academy/internal/model"
)

// DemoTokenPrefix marks tokens minted locally by demo login.
const DemoTokenPrefix = "demo-token-"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login authenticates against the API and stores the session. A 400 answer
// is ErrInvalidCredentials. When the API is unreachable or failing and demo
// login is enabled, the bundled accounts are checked instead.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err == nil {
		if resp.Token == "" || resp.User == nil {
			return nil, errors.New("login: incomplete response")
		}
		if err := c.session.Set(resp.Token, resp.User); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
		c.markLive()
		return resp.User, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode < http.StatusInternalServerError {
		if statusErr.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, statusErr.Message)
		}
		return nil, err
	}
	if !c.demoLogin {
		return nil, err
	}

	user, ok := c.demoAccount(email, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	c.markDegraded(http.MethodPost+" /auth/login", err)
	if err := c.session.Set(DemoTokenPrefix+user.ID, user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return user, nil
}

func (c *Client) demoAccount(email, password string) (*model.User, bool) {
	for _, a := range c.fallback.Users {
		if strings.EqualFold(a.Email, email) && a.Password == password {
			user := a.User
			return &user, true
		}
	}
	return nil, false
}

// Me returns the current user, refreshing the stored copy when the API answers.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	state, ok := c.session.Load()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	live := true
	user, err := fetch(ctx, c, http.MethodGet, "/auth/me", nil, func() (*model.User, error) {
		live = false
		current, ok := c.session.Load()
		if !ok {
			return nil, ErrNotAuthenticated
		}
		return current.User, nil
	})
	if err != nil {
		return nil, err
	}
	if live {
		if user == nil || user.ID == "" {
			return nil, errors.New("me: incomplete response")
		}
		if err := c.session.Set(state.Token, user); err != nil {
			return nil, fmt.Errorf("store session: %w", err)
		}
	}
	return user, nil
}

// IsAuthenticated reports whether a session is stored. It does not contact the API.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.session.Load()
	return ok
}

// Logout clears the session and returns the route to show next.
func (c *Client) Logout() (string, error) {
	if err := c.session.Clear(); err != nil {
		return LoginRoute, fmt.Errorf("clear session: %w", err)
	}
	return LoginRoute, nil
}
