package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lightq-go/lightq/entities"
)

// The concrete wire command catalogue is an external collaborator per
// spec §1; these wrappers supply only the slice this module's dispatcher
// needs to auto-reply (§4.5) and to make the regex end-to-end example
// (S1, a /mute command) concrete.

type sendMessageResponse struct {
	Code      int   `json:"code"`
	MessageID int64 `json:"messageId"`
}

// SendFriendMessage sends chain to the given friend and returns the
// gateway-assigned message id.
func (c *Client) SendFriendMessage(ctx context.Context, friendID int64, chain entities.MessageChain) (int64, error) {
	return c.sendMessage(ctx, "sendFriendMessage", map[string]any{
		"target":       friendID,
		"messageChain": chain,
	})
}

// SendGroupMessage sends chain to the given group.
func (c *Client) SendGroupMessage(ctx context.Context, groupID int64, chain entities.MessageChain) (int64, error) {
	return c.sendMessage(ctx, "sendGroupMessage", map[string]any{
		"target":       groupID,
		"messageChain": chain,
	})
}

// SendTempMessage sends chain to memberID within the context of groupID.
func (c *Client) SendTempMessage(ctx context.Context, memberID, groupID int64, chain entities.MessageChain) (int64, error) {
	return c.sendMessage(ctx, "sendTempMessage", map[string]any{
		"qq":           memberID,
		"group":        groupID,
		"messageChain": chain,
	})
}

func (c *Client) sendMessage(ctx context.Context, command string, content any) (int64, error) {
	raw, err := c.Request(ctx, Command{Name: command, Content: content})
	if err != nil {
		return 0, err
	}
	var resp sendMessageResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("lightq/gateway: decode %s response: %w", command, err)
	}
	return resp.MessageID, nil
}

// Mute mutes memberID within groupID for the given duration in seconds.
func (c *Client) Mute(ctx context.Context, groupID, memberID int64, durationSeconds int) error {
	_, err := c.Request(ctx, Command{
		Name: "mute",
		Content: map[string]any{
			"target":   groupID,
			"memberId": memberID,
			"time":     durationSeconds,
		},
	})
	return err
}
