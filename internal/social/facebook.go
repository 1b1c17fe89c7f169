package social

import (
	"context"
	"errors"
	"fmt"
)

// Facebook posts photos to a page.
type Facebook struct {
	Graph  *Graph
	PageID string
	Token  string
}

// NewFacebook returns a page photo publisher.
func NewFacebook(g *Graph, pageID, token string) *Facebook {
	return &Facebook{Graph: g, PageID: pageID, Token: token}
}

// PublishPhoto posts imageURL with caption and returns the photo ID.
func (fb *Facebook) PublishPhoto(ctx context.Context, imageURL, caption string) (string, error) {
	if fb.PageID == "" || fb.Token == "" {
		return "", errors.New("facebook page or token not configured")
	}
	var reply idReply
	err := fb.Graph.Post(ctx, fb.PageID+"/photos", map[string]string{
		"url":          imageURL,
		"caption":      caption,
		"access_token": fb.Token,
	}, &reply)
	if err != nil {
		return "", fmt.Errorf("facebook photo: %w", err)
	}
	if reply.ID == "" {
		return "", errors.New("facebook photo: no id in response")
	}
	return reply.ID, nil
}
