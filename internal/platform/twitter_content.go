package platform

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

// maxTweetMedia is the number of attachments a tweet accepts.
const maxTweetMedia = 4

type twitterContent struct {
	base
}

func newTwitterContent(o Options) *twitterContent {
	return &twitterContent{base: newBase(models.PlatformTwitter, o)}
}

func (a *twitterContent) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.request(acc, "authenticate", http.MethodGet, a.endpoints.Twitter+"/users/me")

		var out transfer.TwitterData[transfer.TwitterUser]
		if _, err := a.do(ctx, req, &out); err != nil {
			return acc, err
		}
		if out.Data.ID == "" {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("user without id")}
		}
		acc.AccountID = out.Data.ID
		if out.Data.Username != "" {
			acc.AccountName = out.Data.Username
		}
		return acc, nil
	})
}

func (a *twitterContent) PublishContent(ctx context.Context, acc models.SocialAccount, content models.Content) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	body := transfer.TwitterTweetRequest{Text: content.Text}
	var mediaIDs []string
	for i, u := range content.MediaURLs {
		if i == maxTweetMedia {
			a.log("publish_content", acc).WithField("media", len(content.MediaURLs)).Warn("extra media dropped")
			break
		}
		id, err := a.uploadMedia(ctx, acc, u)
		if err != nil {
			return nil, fmt.Errorf("upload media %d: %w", i, err)
		}
		mediaIDs = append(mediaIDs, id)
	}
	if len(mediaIDs) > 0 {
		body.Media = &transfer.TwitterTweetMedia{MediaIDs: mediaIDs}
	}

	tweet, err := a.tweet(ctx, acc, "publish_content", body)
	if err != nil {
		return nil, err
	}
	return &transfer.PublishResult{ID: tweet.ID, PostID: tweet.ID, Status: transfer.PublishStatusPublished, MediaIDs: mediaIDs}, nil
}

func (a *twitterContent) tweet(ctx context.Context, acc models.SocialAccount, op string, body transfer.TwitterTweetRequest) (*transfer.TwitterTweet, error) {
	req := a.request(acc, op, http.MethodPost, a.endpoints.Twitter+"/tweets")
	req.JSON = body

	var out transfer.TwitterData[transfer.TwitterTweet]
	if _, err := a.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.Data.ID == "" {
		return nil, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("tweet without id")}
	}
	return &out.Data, nil
}

func (a *twitterContent) uploadMedia(ctx context.Context, acc models.SocialAccount, rawURL string) (string, error) {
	obj, err := a.media.Fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	category := "tweet_image"
	if obj.Kind == media.KindVideo {
		category = "tweet_video"
	}

	req := a.request(acc, "upload_media", http.MethodPost, a.endpoints.TwitterUpload)
	req.Form = url.Values{
		"media_data":     {base64.StdEncoding.EncodeToString(obj.Data)},
		"media_category": {category},
	}

	var out transfer.TwitterMediaUpload
	if _, err := a.do(ctx, req, &out); err != nil {
		return "", err
	}
	if out.MediaIDString == "" {
		return "", &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("upload without media id")}
	}
	return out.MediaIDString, nil
}

func (a *twitterContent) ScheduleContent(ctx context.Context, acc models.SocialAccount, content models.Content, at time.Time) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.validateScheduleTime(at); err != nil {
		return nil, err
	}
	return a.simulatedSchedule(at)
}

func (a *twitterContent) DeleteContent(ctx context.Context, acc models.SocialAccount, contentID string) (bool, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return false, err
	}
	req := a.request(acc, "delete_content", http.MethodDelete, a.endpoints.Twitter+"/tweets/"+contentID)

	var out transfer.TwitterData[transfer.TwitterDeleted]
	if _, err := a.do(ctx, req, &out); err != nil {
		return false, err
	}
	return out.Data.Deleted, nil
}

func (a *twitterContent) GetAnalytics(ctx context.Context, acc models.SocialAccount, contentID string) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	metrics := make(map[string]float64)
	if contentID == "" {
		req := a.request(acc, "get_analytics", http.MethodGet, a.endpoints.Twitter+"/users/"+acc.AccountID)
		req.Query.Set("user.fields", "public_metrics")

		var out transfer.TwitterData[transfer.TwitterUser]
		resp, err := a.do(ctx, req, &out)
		if err != nil {
			return nil, err
		}
		intMetrics(metrics, "", out.Data.PublicMetrics)
		return &transfer.Analytics{EntityID: acc.AccountID, Metrics: metrics, Raw: resp.Body}, nil
	}

	req := a.request(acc, "get_analytics", http.MethodGet, a.endpoints.Twitter+"/tweets/"+contentID)
	req.Query.Set("tweet.fields", "public_metrics,non_public_metrics")

	var out transfer.TwitterData[transfer.TwitterTweet]
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}
	intMetrics(metrics, "", out.Data.PublicMetrics)
	intMetrics(metrics, "", out.Data.NonPublicMetrics)
	return &transfer.Analytics{EntityID: contentID, Metrics: metrics, Raw: resp.Body}, nil
}

// GetComments lists replies in the tweet's conversation from the last week.
func (a *twitterContent) GetComments(ctx context.Context, acc models.SocialAccount, contentID string) []transfer.Comment {
	if err := lifecycle.Guard(acc); err != nil {
		return a.noComments(acc, contentID, err)
	}
	req := a.request(acc, "get_comments", http.MethodGet, a.endpoints.Twitter+"/tweets/search/recent")
	req.Query.Set("query", "conversation_id:"+contentID)
	req.Query.Set("tweet.fields", "author_id,created_at")

	var out transfer.TwitterData[[]transfer.TwitterTweet]
	if _, err := a.do(ctx, req, &out); err != nil {
		return a.noComments(acc, contentID, err)
	}

	comments := make([]transfer.Comment, 0, len(out.Data))
	for _, t := range out.Data {
		comments = append(comments, transfer.Comment{
			ID:        t.ID,
			Message:   t.Text,
			AuthorID:  t.AuthorID,
			CreatedAt: t.CreatedAt,
		})
	}
	return comments
}

func (a *twitterContent) ReplyToComment(ctx context.Context, acc models.SocialAccount, commentID, reply string) (*transfer.Comment, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	tweet, err := a.tweet(ctx, acc, "reply_to_comment", transfer.TwitterTweetRequest{
		Text:  reply,
		Reply: &transfer.TwitterTweetReply{InReplyToTweetID: commentID},
	})
	if err != nil {
		return nil, err
	}
	return &transfer.Comment{ID: tweet.ID, Message: reply, AuthorID: acc.AccountID, AuthorName: acc.AccountName}, nil
}
