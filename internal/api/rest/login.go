package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oshokin/grinder-console/internal/repository/session"
)

// defaultLoginMessage is shown when the server refuses without a message.
const defaultLoginMessage = "Invalid credentials"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Message string          `json:"message"`
}

// Login exchanges a username and password for a credential. It is the only
// call sent without a bearer header.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Credential, error) {
	var (
		request  = loginRequest{Username: username, Password: password}
		response loginResponse
	)

	if err := c.do(ctx, OpLogin, http.MethodPost, c.loginURL+"/api/login", request, false, &response); err != nil {
		// A refused login often comes back as 401 with the usual body.
		var statusErr *StatusError
		if errors.As(err, &statusErr) && json.Unmarshal([]byte(statusErr.Body), &response) == nil &&
			response.Message != "" {
			return nil, &LoginError{Message: response.Message}
		}

		return nil, fmt.Errorf("login: %w", err)
	}

	if !response.Success {
		message := response.Message
		if message == "" {
			message = defaultLoginMessage
		}

		return nil, &LoginError{Message: message}
	}

	return &session.Credential{
		Token: response.Token,
		User:  decodeUser(response.User),
	}, nil
}

// decodeUser picks the well-known fields out of the opaque user object.
func decodeUser(raw json.RawMessage) session.User {
	user := session.User{}
	if len(raw) == 0 || string(raw) == "null" {
		return user
	}

	user.Raw = raw

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return user
	}

	user.ID = stringField(fields, "id", "_id")
	user.Username = stringField(fields, "username", "name")
	user.Role = stringField(fields, "role")

	return user
}

func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	return ""
}
