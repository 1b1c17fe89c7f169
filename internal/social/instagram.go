package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// PublishResult describes a published Instagram post.
type PublishResult struct {
	ContainerID string `json:"containerId"`
	MediaID     string `json:"mediaId"`
}

// Instagram publishes single-image posts for one business account.
type Instagram struct {
	Graph  *Graph
	UserID string
	Token  string
	Poller *Poller
}

// NewInstagram returns an Instagram publisher for userID.
func NewInstagram(g *Graph, userID, token string, poller *Poller) *Instagram {
	return &Instagram{Graph: g, UserID: userID, Token: token, Poller: poller}
}

type idReply struct {
	ID string `json:"id"`
}

// CreateContainer registers an image and caption as a media container.
func (ig *Instagram) CreateContainer(ctx context.Context, imageURL, caption string) (string, error) {
	if ig.UserID == "" || ig.Token == "" {
		return "", errors.New("instagram account or token not configured")
	}
	var reply idReply
	err := ig.Graph.Post(ctx, ig.UserID+"/media", map[string]string{
		"image_url":    imageURL,
		"caption":      caption,
		"access_token": ig.Token,
	}, &reply)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	if reply.ID == "" {
		return "", errors.New("create container: no id in response")
	}
	return reply.ID, nil
}

// Status reads the processing status of a container.
func (ig *Instagram) Status(ctx context.Context, containerID string) (MediaStatus, error) {
	var st MediaStatus
	err := ig.Graph.Get(ctx, containerID, url.Values{
		"fields":       {"status_code,status"},
		"access_token": {ig.Token},
	}, &st)
	return st, err
}

// PublishContainer publishes a FINISHED container and returns the media ID.
func (ig *Instagram) PublishContainer(ctx context.Context, containerID string) (string, error) {
	var reply idReply
	err := ig.Graph.Post(ctx, ig.UserID+"/media_publish", map[string]string{
		"creation_id":  containerID,
		"access_token": ig.Token,
	}, &reply)
	if err != nil {
		return "", fmt.Errorf("publish container: %w", err)
	}
	return reply.ID, nil
}

// Publish runs the whole flow: create, wait for FINISHED, publish.
func (ig *Instagram) Publish(ctx context.Context, imageURL, caption string) (*PublishResult, error) {
	id, err := ig.CreateContainer(ctx, imageURL, caption)
	if err != nil {
		return nil, err
	}
	if err := ig.Poller.Wait(ctx, ig, id); err != nil {
		return nil, err
	}
	mediaID, err := ig.PublishContainer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PublishResult{ContainerID: id, MediaID: mediaID}, nil
}
