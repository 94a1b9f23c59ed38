// Package exiftool rewrites metadata with the operator's template and reads
// single tags for the gate comment check.
package exiftool

import (
	"context"
	"strings"

	"albumpress/internal/services"
	"albumpress/internal/services/command"
)

const (
	stageRewrite = "metadata"
	stageGate    = "gate"
)

// Client wraps exiftool CLI interactions.
type Client struct {
	tool *command.Tool
}

// New constructs an exiftool client for binary.
func New(binary string, opts ...command.ToolOption) (*Client, error) {
	tool, err := command.NewTool("exiftool", binary, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{tool: tool}, nil
}

// Rewrite expands template with src and dst and runs exiftool. When comment
// is non-empty the Comment and UserComment tags are set to it as well, which
// is what the gate check looks for on later runs.
func (c *Client) Rewrite(ctx context.Context, template, src, dst, comment string) (command.Result, error) {
	args, err := command.Expand(template, src, dst)
	if err != nil {
		return command.Result{}, services.Wrap(services.ErrValidation, stageRewrite, "expand template", "", err)
	}
	args = append(args, CommentArgs(comment)...)
	return c.tool.Run(services.WithStage(ctx, stageRewrite), args)
}

// CommentArgs returns the exiftool arguments that stamp comment.
func CommentArgs(comment string) []string {
	if comment == "" {
		return nil
	}
	return []string{"-comment=" + comment, "-usercomment=" + comment}
}

// ReadTag runs `exiftool -<tag> <path>` and returns the tag value. The
// second result is false when exiftool printed nothing usable.
func (c *Client) ReadTag(ctx context.Context, tag, path string) (string, bool, error) {
	_, lines, err := c.tool.Output(services.WithStage(ctx, stageGate), []string{"-" + tag, path})
	if err != nil {
		return "", false, err
	}
	value, ok := ParseTagValue(lines)
	return value, ok, nil
}

// ReadComment reads the Comment tag of path.
func (c *Client) ReadComment(ctx context.Context, path string) (string, bool, error) {
	return c.ReadTag(ctx, "comment", path)
}

// ParseTagValue extracts the value from exiftool's "Name : value" output.
// The first line containing a colon wins; everything after its first colon
// is the value, so values that themselves contain colons survive intact.
func ParseTagValue(lines []string) (string, bool) {
	for _, line := range lines {
		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.ReplaceAll(value, "\r", "")
		value = strings.ReplaceAll(value, "\n", "")
		return strings.TrimSpace(value), true
	}
	return "", false
}
