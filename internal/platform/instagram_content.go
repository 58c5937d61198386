package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

// instagramContent publishes through media containers: a container is
// created for the media, then published as a second step.
type instagramContent struct {
	base
}

func newInstagramContent(o Options) *instagramContent {
	return &instagramContent{base: newBase(models.PlatformInstagram, o)}
}

func (a *instagramContent) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.request(acc, "authenticate", http.MethodGet, a.endpoints.Graph+"/"+acc.AccountID)
		req.Query.Set("fields", "id,username")

		var me transfer.GraphObject
		if _, err := a.do(ctx, req, &me); err != nil {
			return acc, err
		}
		if me.ID == "" {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("account without id")}
		}
		acc.AccountID = me.ID
		if me.Username != "" {
			acc.AccountName = me.Username
		}
		return acc, nil
	})
}

func (a *instagramContent) PublishContent(ctx context.Context, acc models.SocialAccount, content models.Content) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.requireMedia(content); err != nil {
		return nil, err
	}

	containerID, children, err := a.createContainer(ctx, acc, content)
	if err != nil {
		return nil, err
	}

	req := a.request(acc, "media_publish", http.MethodPost, a.endpoints.Graph+"/"+acc.AccountID+"/media_publish")
	req.JSON = transfer.InstagramPublishRequest{CreationID: containerID}

	var out transfer.GraphObject
	if _, err := a.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &transfer.PublishResult{
		ID:       out.ID,
		Status:   transfer.PublishStatusPublished,
		MediaIDs: append(children, containerID),
	}, nil
}

// createContainer returns the container to publish. Several media urls
// build a carousel whose child container ids are returned as well.
func (a *instagramContent) createContainer(ctx context.Context, acc models.SocialAccount, content models.Content) (string, []string, error) {
	if len(content.MediaURLs) == 1 {
		body := containerFor(content.MediaURLs[0], false)
		body.Caption = content.Text
		id, err := a.postContainer(ctx, acc, body)
		return id, nil, err
	}

	children := make([]string, 0, len(content.MediaURLs))
	for _, u := range content.MediaURLs {
		id, err := a.postContainer(ctx, acc, containerFor(u, true))
		if err != nil {
			return "", nil, fmt.Errorf("carousel item %d: %w", len(children), err)
		}
		children = append(children, id)
	}

	id, err := a.postContainer(ctx, acc, transfer.InstagramContainerRequest{
		MediaType: "CAROUSEL",
		Caption:   content.Text,
		Children:  children,
	})
	return id, children, err
}

func containerFor(rawURL string, carouselItem bool) transfer.InstagramContainerRequest {
	if media.KindOf(rawURL) == media.KindVideo {
		mediaType := "REELS"
		if carouselItem {
			mediaType = "VIDEO"
		}
		return transfer.InstagramContainerRequest{VideoURL: rawURL, MediaType: mediaType, IsCarouselItem: carouselItem}
	}
	return transfer.InstagramContainerRequest{ImageURL: rawURL, IsCarouselItem: carouselItem}
}

func (a *instagramContent) postContainer(ctx context.Context, acc models.SocialAccount, body transfer.InstagramContainerRequest) (string, error) {
	req := a.request(acc, "create_container", http.MethodPost, a.endpoints.Graph+"/"+acc.AccountID+"/media")
	req.JSON = body

	var out transfer.GraphObject
	if _, err := a.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("container without id")}
	}
	return out.ID, nil
}

func (a *instagramContent) ScheduleContent(ctx context.Context, acc models.SocialAccount, content models.Content, at time.Time) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.requireMedia(content); err != nil {
		return nil, err
	}
	if err := a.validateScheduleTime(at); err != nil {
		return nil, err
	}
	return a.simulatedSchedule(at)
}

func (a *instagramContent) DeleteContent(ctx context.Context, acc models.SocialAccount, contentID string) (bool, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return false, err
	}
	req := a.request(acc, "delete_content", http.MethodDelete, a.endpoints.Graph+"/"+contentID)
	if _, err := a.do(ctx, req, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a *instagramContent) GetAnalytics(ctx context.Context, acc models.SocialAccount, contentID string) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	entity := contentID
	req := a.request(acc, "get_analytics", http.MethodGet, "")
	if contentID == "" {
		entity = acc.AccountID
		req.Query.Set("metric", "impressions,reach,profile_views")
		req.Query.Set("period", "day")
	} else {
		req.Query.Set("metric", "engagement,impressions,reach")
	}
	req.Endpoint = a.endpoints.Graph + "/" + entity + "/insights"

	var out transfer.GraphList[transfer.GraphInsight]
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}
	return &transfer.Analytics{EntityID: entity, Metrics: insightMetrics(out.Data), Raw: resp.Body}, nil
}

func (a *instagramContent) GetComments(ctx context.Context, acc models.SocialAccount, contentID string) []transfer.Comment {
	if err := lifecycle.Guard(acc); err != nil {
		return a.noComments(acc, contentID, err)
	}
	req := a.request(acc, "get_comments", http.MethodGet, a.endpoints.Graph+"/"+contentID+"/comments")
	req.Query.Set("fields", "id,text,timestamp,username")

	var out transfer.GraphList[transfer.GraphComment]
	if _, err := a.do(ctx, req, &out); err != nil {
		return a.noComments(acc, contentID, err)
	}
	return graphComments(out.Data)
}

func (a *instagramContent) ReplyToComment(ctx context.Context, acc models.SocialAccount, commentID, reply string) (*transfer.Comment, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	req := a.request(acc, "reply_to_comment", http.MethodPost, a.endpoints.Graph+"/"+commentID+"/replies")
	req.JSON = transfer.GraphMessageRequest{Message: reply}

	var out transfer.GraphObject
	if _, err := a.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &transfer.Comment{ID: out.ID, Message: reply, AuthorID: acc.AccountID, AuthorName: acc.AccountName}, nil
}
