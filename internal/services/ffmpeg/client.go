// Package ffmpeg runs the operator's transcode template against one file.
package ffmpeg

import (
	"context"

	"albumpress/internal/services"
	"albumpress/internal/services/command"
)

const stageName = "transcode"

// Client wraps ffmpeg CLI interactions.
type Client struct {
	tool *command.Tool
}

// New constructs an ffmpeg client for binary.
func New(binary string, opts ...command.ToolOption) (*Client, error) {
	tool, err := command.NewTool("ffmpeg", binary, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{tool: tool}, nil
}

// Transcode expands template with src and dst and runs ffmpeg until it
// exits. A non-zero exit is logged by the tool and is not an error.
func (c *Client) Transcode(ctx context.Context, template, src, dst string) (command.Result, error) {
	args, err := command.Expand(template, src, dst)
	if err != nil {
		return command.Result{}, services.Wrap(services.ErrValidation, stageName, "expand template", "", err)
	}
	return c.tool.Run(services.WithStage(ctx, stageName), args)
}
