package platform

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

type facebookContent struct {
	base
}

func newFacebookContent(o Options) *facebookContent {
	return &facebookContent{base: newBase(models.PlatformFacebook, o)}
}

func (a *facebookContent) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.request(acc, "authenticate", http.MethodGet, a.endpoints.Graph+"/me")
		req.Query.Set("fields", "id,name")

		var me transfer.GraphObject
		if _, err := a.do(ctx, req, &me); err != nil {
			return acc, err
		}
		if me.ID == "" {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("profile without id")}
		}
		acc.AccountID = me.ID
		if me.Name != "" {
			acc.AccountName = me.Name
		}
		return acc, nil
	})
}

func (a *facebookContent) PublishContent(ctx context.Context, acc models.SocialAccount, content models.Content) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	return a.publish(ctx, acc, content, nil)
}

func (a *facebookContent) ScheduleContent(ctx context.Context, acc models.SocialAccount, content models.Content, at time.Time) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.validateScheduleTime(at); err != nil {
		return nil, err
	}
	if !a.quirks.Content.NativeScheduling {
		return a.simulatedSchedule(at)
	}
	return a.publish(ctx, acc, content, &at)
}

// publish posts to the feed, or to photos/videos when the first media url is
// an image or a video. A non-nil at stores the post unpublished for that time.
func (a *facebookContent) publish(ctx context.Context, acc models.SocialAccount, content models.Content, at *time.Time) (*transfer.PublishResult, error) {
	var published *bool
	var scheduledAt int64
	if at != nil {
		no := false
		published = &no
		scheduledAt = at.Unix()
	}

	out := &transfer.GraphObject{}
	first := ""
	if len(content.MediaURLs) > 0 {
		first = content.MediaURLs[0]
	}

	switch media.KindOf(first) {
	case media.KindVideo:
		r := a.request(acc, "publish_video", http.MethodPost, a.endpoints.Graph+"/"+acc.AccountID+"/videos")
		r.JSON = transfer.FacebookVideoRequest{
			FileURL:              first,
			Description:          content.Text,
			Published:            published,
			ScheduledPublishTime: scheduledAt,
		}
		if _, err := a.do(ctx, r, out); err != nil {
			return nil, err
		}
	case media.KindImage:
		r := a.request(acc, "publish_photo", http.MethodPost, a.endpoints.Graph+"/"+acc.AccountID+"/photos")
		r.JSON = transfer.FacebookPhotoRequest{
			URL:                  first,
			Message:              content.Text,
			Published:            published,
			ScheduledPublishTime: scheduledAt,
		}
		if _, err := a.do(ctx, r, out); err != nil {
			return nil, err
		}
	default:
		r := a.request(acc, "publish_post", http.MethodPost, a.endpoints.Graph+"/"+acc.AccountID+"/feed")
		r.JSON = transfer.FacebookFeedRequest{
			Message:              content.Text,
			Published:            published,
			ScheduledPublishTime: scheduledAt,
		}
		if _, err := a.do(ctx, r, out); err != nil {
			return nil, err
		}
	}

	result := &transfer.PublishResult{
		ID:     out.ID,
		PostID: out.PostID,
		Status: transfer.PublishStatusPublished,
	}
	if at != nil {
		result.Status = transfer.PublishStatusScheduled
		result.ScheduledTime = at
	}
	return result, nil
}

func (a *facebookContent) DeleteContent(ctx context.Context, acc models.SocialAccount, contentID string) (bool, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return false, err
	}
	req := a.request(acc, "delete_content", http.MethodDelete, a.endpoints.Graph+"/"+contentID)
	if _, err := a.do(ctx, req, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a *facebookContent) GetAnalytics(ctx context.Context, acc models.SocialAccount, contentID string) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	entity := contentID
	req := a.request(acc, "get_analytics", http.MethodGet, "")
	if contentID == "" {
		entity = acc.AccountID
		req.Query.Set("metric", "page_impressions,page_engaged_users,page_post_engagements")
		req.Query.Set("period", "day")
	} else {
		req.Query.Set("metric", "post_impressions,post_engagements,post_reactions_by_type_total")
	}
	req.Endpoint = a.endpoints.Graph + "/" + entity + "/insights"

	var out transfer.GraphList[transfer.GraphInsight]
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}
	return &transfer.Analytics{EntityID: entity, Metrics: insightMetrics(out.Data), Raw: resp.Body}, nil
}

func (a *facebookContent) GetComments(ctx context.Context, acc models.SocialAccount, contentID string) []transfer.Comment {
	if err := lifecycle.Guard(acc); err != nil {
		return a.noComments(acc, contentID, err)
	}
	req := a.request(acc, "get_comments", http.MethodGet, a.endpoints.Graph+"/"+contentID+"/comments")
	req.Query.Set("fields", "id,message,created_time,from")

	var out transfer.GraphList[transfer.GraphComment]
	if _, err := a.do(ctx, req, &out); err != nil {
		return a.noComments(acc, contentID, err)
	}
	return graphComments(out.Data)
}

func (a *facebookContent) ReplyToComment(ctx context.Context, acc models.SocialAccount, commentID, reply string) (*transfer.Comment, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	req := a.request(acc, "reply_to_comment", http.MethodPost, a.endpoints.Graph+"/"+commentID+"/comments")
	req.JSON = transfer.GraphMessageRequest{Message: reply}

	var out transfer.GraphObject
	if _, err := a.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &transfer.Comment{ID: out.ID, Message: reply, AuthorID: acc.AccountID, AuthorName: acc.AccountName}, nil
}

func graphComments(in []transfer.GraphComment) []transfer.Comment {
	comments := make([]transfer.Comment, 0, len(in))
	for _, c := range in {
		comment := transfer.Comment{
			ID:         c.ID,
			Message:    c.Message,
			CreatedAt:  c.CreatedTime,
			AuthorName: c.Username,
		}
		if comment.Message == "" {
			comment.Message = c.Text
		}
		if comment.CreatedAt == "" {
			comment.CreatedAt = c.Timestamp
		}
		if c.From != nil {
			comment.AuthorID = c.From.ID
			comment.AuthorName = c.From.Name
		}
		comments = append(comments, comment)
	}
	return comments
}
