package badsec

import (
	"context"
	"net/http"

	"github.com/gaborage/noclist/httpclient"
	"github.com/gaborage/noclist/logger"
)

const (
	// AuthPath issues the token
	AuthPath = "/auth"
	// UsersPath returns the newline-delimited user list
	UsersPath = "/users"
)

// Client runs the auth, checksum, users sequence against one BADSEC server.
// It holds no per-call state, so a Client may be reused.
type Client struct {
	executor httpclient.Executor
	logger   logger.Logger
}

// NewClient creates a Client that sends through exec.
func NewClient(exec httpclient.Executor, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		executor: exec,
		logger:   log,
	}
}

// FetchUserList authenticates and returns the user list as a JSON array.
//
// Errors are one of *ProtocolError (a step ended on a non-200 status),
// *httpclient.AggregateError (a step never got a response), or a
// cancellation error from ctx.
func (c *Client) FetchUserList(ctx context.Context) (string, error) {
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}

	body, err := c.fetchUsers(ctx, Checksum(token))
	if err != nil {
		return "", err
	}

	ids := ParseUserList(body)
	c.logger.Info().
		Int("user_count", len(ids)).
		Msg("BADSEC user list retrieved")

	return EncodeUserList(body), nil
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	resp, err := c.executor.Execute(ctx, &httpclient.Request{
		Path:       AuthPath,
		ReadPolicy: httpclient.ReadHeaders,
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.protocolFailure(StageAuth, resp)
	}

	token := TokenFromHeader(resp.Headers)
	if token == "" {
		c.logger.Warn().
			Str("header", AuthTokenHeader).
			Msg("BADSEC auth response carried no token")
	}
	return token, nil
}

func (c *Client) fetchUsers(ctx context.Context, checksum string) (string, error) {
	resp, err := c.executor.Execute(ctx, &httpclient.Request{
		Path:       UsersPath,
		Headers:    map[string]string{ChecksumHeader: checksum},
		ReadPolicy: httpclient.ReadFullBody,
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.protocolFailure(StageUsers, resp)
	}
	return string(resp.Body), nil
}

func (c *Client) protocolFailure(stage Stage, resp *httpclient.Response) error {
	err := NewProtocolError(stage, resp.StatusCode)
	c.logger.Error().
		Err(err).
		Str("stage", string(stage)).
		Int("status", resp.StatusCode).
		Int("attempts", resp.Stats.Attempts).
		Msg("BADSEC protocol step failed")
	return err
}
