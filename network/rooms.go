package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const createRoomPath = "/api/rooms/create"

// ServerRejectionError is a request the server answered with an error.
type ServerRejectionError struct {
	Status  int
	Message string
}

func (e *ServerRejectionError) Error() string {
	return e.Message
}

// RoomsClient talks to the HTTP side of the server.
type RoomsClient struct {
	base   string
	client *http.Client
	logger *slog.Logger
}

func NewRoomsClient(base string, opts ...option) *RoomsClient {
	s := newSettings(opts)
	return &RoomsClient{
		base:   strings.TrimRight(base, "/"),
		client: s.httpClient,
		logger: s.logger,
	}
}

type createRoomResponse struct {
	RoomID string `json:"roomId"`
	Error  string `json:"error"`
}

// CreateRoom asks the server for a fresh room and returns its id.
func (c *RoomsClient) CreateRoom(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+createRoomPath, nil)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxMessageSize))
	if err != nil {
		return "", fmt.Errorf("create room: read body: %w", err)
	}
	var out createRoomResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = "Failed to create room"
		}
		c.logger.Warn("room creation rejected", "status", resp.StatusCode, "error", msg)
		return "", &ServerRejectionError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("create room: decode response: %w", decodeErr)
	}
	if out.RoomID == "" {
		return "", &ServerRejectionError{Status: resp.StatusCode, Message: "Failed to create room"}
	}
	c.logger.Info("room created", "roomId", out.RoomID)
	return out.RoomID, nil
}
