package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/executor"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
)

type linkedInContent struct {
	base
}

func newLinkedInContent(o Options) *linkedInContent {
	return &linkedInContent{base: newBase(models.PlatformLinkedIn, o)}
}

// restli builds a request carrying the Rest.li protocol header LinkedIn
// requires on its v2 API.
func (b *base) restli(acc models.SocialAccount, op, method, endpoint string) *executor.Request {
	req := b.request(acc, op, method, endpoint)
	req.Headers["X-Restli-Protocol-Version"] = "2.0.0"
	return req
}

// restliID reads the id of a created entity from the x-restli-id header,
// falling back to the body.
func restliID(resp *executor.Response) string {
	if id := resp.Header.Get("x-restli-id"); id != "" {
		return id
	}
	var out transfer.LinkedInCreated
	if err := resp.Decode(&out); err != nil {
		return ""
	}
	return out.ID
}

func personURN(acc models.SocialAccount) string {
	return "urn:li:person:" + acc.AccountID
}

func (a *linkedInContent) Authenticate(ctx context.Context, acc models.SocialAccount) models.SocialAccount {
	return a.authenticate(ctx, acc, func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
		req := a.restli(acc, "authenticate", http.MethodGet, a.endpoints.LinkedIn+"/me")

		var me transfer.LinkedInProfile
		if _, err := a.do(ctx, req, &me); err != nil {
			return acc, err
		}
		if me.ID == "" {
			return acc, &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("profile without id")}
		}
		acc.AccountID = me.ID
		if name := strings.TrimSpace(me.LocalizedFirstName + " " + me.LocalizedLastName); name != "" {
			acc.AccountName = name
		}
		return acc, nil
	})
}

func (a *linkedInContent) PublishContent(ctx context.Context, acc models.SocialAccount, content models.Content) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	share := transfer.LinkedInShareContent{
		ShareCommentary:    transfer.LinkedInText{Text: content.Text},
		ShareMediaCategory: "NONE",
	}
	var assets []string
	for i, u := range content.MediaURLs {
		kind := media.KindOf(u)
		asset, err := a.uploadMedia(ctx, acc, u, kind)
		if err != nil {
			return nil, fmt.Errorf("upload media %d: %w", i, err)
		}
		assets = append(assets, asset)

		if i == 0 {
			share.ShareMediaCategory = "IMAGE"
			if kind == media.KindVideo {
				share.ShareMediaCategory = "VIDEO"
			}
		}
		item := transfer.LinkedInShareMedia{Status: "READY", Media: asset}
		if content.Title != "" {
			item.Title = &transfer.LinkedInText{Text: content.Title}
		}
		share.Media = append(share.Media, item)
	}

	req := a.restli(acc, "publish_post", http.MethodPost, a.endpoints.LinkedIn+"/ugcPosts")
	req.JSON = transfer.LinkedInUGCPost{
		Author:          personURN(acc),
		LifecycleState:  "PUBLISHED",
		SpecificContent: transfer.LinkedInSpecificContent{ShareContent: share},
		Visibility:      transfer.LinkedInVisibility{MemberNetworkVisibility: "PUBLIC"},
	}

	resp, err := a.do(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	id := restliID(resp)
	return &transfer.PublishResult{ID: id, PostID: id, Status: transfer.PublishStatusPublished, MediaIDs: assets}, nil
}

// uploadMedia registers an upload, sends the bytes and returns the asset urn.
func (a *linkedInContent) uploadMedia(ctx context.Context, acc models.SocialAccount, rawURL string, kind media.Kind) (string, error) {
	recipe := "urn:li:digitalmediaRecipe:feedshare-image"
	if kind == media.KindVideo {
		recipe = "urn:li:digitalmediaRecipe:feedshare-video"
	}

	register := a.restli(acc, "register_upload", http.MethodPost, a.endpoints.LinkedIn+"/assets")
	register.Query.Set("action", "registerUpload")
	register.JSON = transfer.LinkedInRegisterUploadRequest{
		RegisterUploadRequest: transfer.LinkedInRegisterUpload{
			Recipes: []string{recipe},
			Owner:   personURN(acc),
			ServiceRelationships: []transfer.LinkedInServiceRelationship{{
				RelationshipType: "OWNER",
				Identifier:       "urn:li:userGeneratedContent",
			}},
		},
	}

	var registered transfer.LinkedInRegisterUploadResponse
	if _, err := a.do(ctx, register, &registered); err != nil {
		return "", err
	}
	upload := registered.Value.UploadMechanism.MediaUploadHTTPRequest
	if registered.Value.Asset == "" || upload.UploadURL == "" {
		return "", &apperrors.PlatformError{Platform: string(a.platform), Err: errors.New("register upload returned no asset")}
	}

	obj, err := a.media.Fetch(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	put := a.request(acc, "upload_media", http.MethodPut, upload.UploadURL)
	put.Body = obj.Data
	if obj.ContentType != "" {
		put.Headers["Content-Type"] = obj.ContentType
	}
	for k, v := range upload.Headers {
		put.Headers[k] = v
	}
	if _, err := a.do(ctx, put, nil); err != nil {
		return "", err
	}
	return registered.Value.Asset, nil
}

func (a *linkedInContent) ScheduleContent(ctx context.Context, acc models.SocialAccount, content models.Content, at time.Time) (*transfer.PublishResult, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	if err := a.validateScheduleTime(at); err != nil {
		return nil, err
	}
	return a.simulatedSchedule(at)
}

func (a *linkedInContent) DeleteContent(ctx context.Context, acc models.SocialAccount, contentID string) (bool, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return false, err
	}
	req := a.restli(acc, "delete_content", http.MethodDelete, a.endpoints.LinkedIn+"/ugcPosts/"+url.PathEscape(contentID))
	if _, err := a.do(ctx, req, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (a *linkedInContent) GetAnalytics(ctx context.Context, acc models.SocialAccount, contentID string) (*transfer.Analytics, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}

	if contentID == "" {
		req := a.restli(acc, "get_analytics", http.MethodGet, a.endpoints.LinkedIn+"/organizationalEntityShareStatistics")
		req.Query.Set("q", "organizationalEntity")
		req.Query.Set("organizationalEntity", personURN(acc))

		var out transfer.LinkedInElements[transfer.LinkedInShareStatistics]
		resp, err := a.do(ctx, req, &out)
		if err != nil {
			return nil, err
		}
		metrics := make(map[string]float64)
		for _, el := range out.Elements {
			s := el.TotalShareStatistics
			metrics["shares"] += s.ShareCount
			metrics["clicks"] += s.ClickCount
			metrics["engagement"] += s.EngagementCount
			metrics["likes"] += s.LikeCount
			metrics["impressions"] += s.ImpressionCount
			metrics["comments"] += s.CommentCount
			metrics["unique_impressions"] += s.UniqueImpressionsCount
		}
		return &transfer.Analytics{EntityID: acc.AccountID, Metrics: metrics, Raw: resp.Body}, nil
	}

	req := a.restli(acc, "get_analytics", http.MethodGet, a.endpoints.LinkedIn+"/socialActions/"+url.PathEscape(contentID))
	var out transfer.LinkedInSocialActions
	resp, err := a.do(ctx, req, &out)
	if err != nil {
		return nil, err
	}
	return &transfer.Analytics{
		EntityID: contentID,
		Metrics: map[string]float64{
			"likes":    float64(out.LikesSummary.TotalLikes),
			"comments": float64(out.CommentsSummary.AggregatedTotalComments),
		},
		Raw: resp.Body,
	}, nil
}

func (a *linkedInContent) GetComments(ctx context.Context, acc models.SocialAccount, contentID string) []transfer.Comment {
	if err := lifecycle.Guard(acc); err != nil {
		return a.noComments(acc, contentID, err)
	}
	req := a.restli(acc, "get_comments", http.MethodGet, a.endpoints.LinkedIn+"/socialActions/"+url.PathEscape(contentID)+"/comments")

	var out transfer.LinkedInElements[transfer.LinkedInComment]
	if _, err := a.do(ctx, req, &out); err != nil {
		return a.noComments(acc, contentID, err)
	}

	comments := make([]transfer.Comment, 0, len(out.Elements))
	for _, c := range out.Elements {
		comment := transfer.Comment{ID: c.ID, Message: c.Message.Text, AuthorID: c.Actor}
		if comment.ID == "" {
			comment.ID = c.URN
		}
		if c.Created != nil {
			comment.CreatedAt = time.UnixMilli(c.Created.Time).UTC().Format(time.RFC3339)
		}
		comments = append(comments, comment)
	}
	return comments
}

func (a *linkedInContent) ReplyToComment(ctx context.Context, acc models.SocialAccount, commentID, reply string) (*transfer.Comment, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return nil, err
	}
	req := a.restli(acc, "reply_to_comment", http.MethodPost, a.endpoints.LinkedIn+"/socialActions/"+url.PathEscape(commentID)+"/comments")
	req.JSON = transfer.LinkedInCommentRequest{
		Actor:   personURN(acc),
		Message: transfer.LinkedInText{Text: reply},
	}

	resp, err := a.do(ctx, req, nil)
	if err != nil {
		return nil, err
	}
	return &transfer.Comment{ID: restliID(resp), Message: reply, AuthorID: personURN(acc), AuthorName: acc.AccountName}, nil
}
