package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	eludris "github.com/eludris-community/eludris-go"
)

// InstanceInfo returns the instance metadata, fetching it (with the
// advertised rate-limit policy) on first use and caching it for the
// lifetime of the client.
func (c *Client) InstanceInfo(ctx context.Context) (*eludris.InstanceInfo, error) {
	if info := c.cachedInfo(); info != nil {
		return info, nil
	}

	var info eludris.InstanceInfo
	err := c.doJSON(ctx, request{
		host:   hostOprish,
		route:  RouteInfo,
		method: http.MethodGet,
		path:   "/?rate_limits=true",
	}, &info)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.info = &info
	c.mu.Unlock()
	return &info, nil
}

// CreateMessage posts a message.
func (c *Client) CreateMessage(ctx context.Context, author, content string) (*eludris.Message, error) {
	body, err := jsonBody(eludris.Message{Author: author, Content: content})
	if err != nil {
		return nil, err
	}

	var msg eludris.Message
	err = c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteMessageCreate,
		method:      http.MethodPost,
		path:        "/messages",
		body:        body,
		contentType: "application/json",
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateSession authenticates with the given credentials and stores the
// returned token on the client.
func (c *Client) CreateSession(ctx context.Context, create eludris.SessionCreate) (*eludris.SessionCreated, error) {
	body, err := jsonBody(create)
	if err != nil {
		return nil, err
	}

	var created eludris.SessionCreated
	err = c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteSessions,
		method:      http.MethodPost,
		path:        "/sessions",
		body:        body,
		contentType: "application/json",
	}, &created)
	if err != nil {
		return nil, err
	}

	c.SetToken(created.Token)
	return &created, nil
}

// Sessions lists the authenticated user's sessions.
func (c *Client) Sessions(ctx context.Context) ([]eludris.Session, error) {
	var sessions []eludris.Session
	err := c.doJSON(ctx, request{
		host:   hostOprish,
		route:  RouteSessions,
		method: http.MethodGet,
		path:   "/sessions",
	}, &sessions)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteSession invalidates a session by id.
func (c *Client) DeleteSession(ctx context.Context, id uint64) error {
	return c.doJSON(ctx, request{
		host:   hostOprish,
		route:  RouteSessions,
		method: http.MethodDelete,
		path:   "/sessions/" + strconv.FormatUint(id, 10),
	}, nil)
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, create eludris.UserCreate) (*eludris.User, error) {
	body, err := jsonBody(create)
	if err != nil {
		return nil, err
	}

	var user eludris.User
	err = c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteUsers,
		method:      http.MethodPost,
		path:        "/users",
		body:        body,
		contentType: "application/json",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes the authenticated user's account.
func (c *Client) DeleteUser(ctx context.Context, password string) error {
	body, err := jsonBody(map[string]string{"password": password})
	if err != nil {
		return err
	}

	return c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteUsers,
		method:      http.MethodDelete,
		path:        "/users",
		body:        body,
		contentType: "application/json",
	}, nil)
}

// UserByID fetches a user by id.
func (c *Client) UserByID(ctx context.Context, id uint64) (*eludris.User, error) {
	return c.fetchUser(ctx, "/users/"+strconv.FormatUint(id, 10))
}

// UserByUsername fetches a user by username.
func (c *Client) UserByUsername(ctx context.Context, username string) (*eludris.User, error) {
	return c.fetchUser(ctx, "/users/"+url.PathEscape(username))
}

func (c *Client) fetchUser(ctx context.Context, path string) (*eludris.User, error) {
	var user eludris.User
	err := c.doJSON(ctx, request{
		host:   hostOprish,
		route:  RouteUsers,
		method: http.MethodGet,
		path:   path,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates account fields.
func (c *Client) UpdateUser(ctx context.Context, update eludris.UserUpdate) (*eludris.User, error) {
	return c.patchUser(ctx, "/users", update)
}

// UpdateProfile updates profile fields.
func (c *Client) UpdateProfile(ctx context.Context, update eludris.ProfileUpdate) (*eludris.User, error) {
	return c.patchUser(ctx, "/users/profile", update)
}

func (c *Client) patchUser(ctx context.Context, path string, update any) (*eludris.User, error) {
	body, err := jsonBody(update)
	if err != nil {
		return nil, err
	}

	var user eludris.User
	err = c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteUsers,
		method:      http.MethodPatch,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyUser verifies the authenticated user's email address.
func (c *Client) VerifyUser(ctx context.Context, code string) error {
	return c.doJSON(ctx, request{
		host:   hostOprish,
		route:  RouteUsers,
		method: http.MethodPost,
		path:   "/users/verify?code=" + url.QueryEscape(code),
	}, nil)
}

// CreatePasswordResetCode asks the instance to mail a reset code.
func (c *Client) CreatePasswordResetCode(ctx context.Context, email string) error {
	body, err := jsonBody(map[string]string{"email": email})
	if err != nil {
		return err
	}

	return c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteUsers,
		method:      http.MethodPost,
		path:        "/users/reset-password",
		body:        body,
		contentType: "application/json",
	}, nil)
}

// ResetPassword consumes a reset code and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, reset eludris.PasswordReset) error {
	body, err := jsonBody(reset)
	if err != nil {
		return err
	}

	return c.doJSON(ctx, request{
		host:        hostOprish,
		route:       RouteUsers,
		method:      http.MethodPatch,
		path:        "/users/reset-password",
		body:        body,
		contentType: "application/json",
	}, nil)
}
