package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	config "github.com/maheshrc27/socialbridge/configs"
	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/executor"
	"github.com/maheshrc27/socialbridge/internal/lifecycle"
	"github.com/maheshrc27/socialbridge/internal/media"
	"github.com/maheshrc27/socialbridge/internal/models"
	"github.com/maheshrc27/socialbridge/internal/transfer"
	"github.com/maheshrc27/socialbridge/pkg/logging"
)

// base carries what every adapter shares: the executor, credentials, quirks
// and the credential lifecycle.
type base struct {
	platform  models.Platform
	exec      *executor.Executor
	creds     config.Credentials
	quirks    Quirks
	endpoints Endpoints
	media     media.Fetcher
	logger    logging.Logger
	now       func() time.Time
	ids       func() (string, error)
	tokenURL  string
	// tokenAuthInHeader sends client credentials with HTTP basic auth on the
	// OAuth2 token endpoint when a client secret is configured.
	tokenAuthInHeader bool
}

func newBase(p models.Platform, o Options) base {
	b := base{
		platform:  p,
		exec:      o.Executor,
		creds:     o.credentials(p),
		quirks:    o.Quirks[p],
		endpoints: o.Endpoints,
		media:     o.Media,
		logger:    o.Logger,
		now:       o.Now,
		ids:       o.IDs,
	}
	switch p {
	case models.PlatformLinkedIn:
		b.tokenURL = o.Endpoints.LinkedInAuth
	case models.PlatformTwitter:
		b.tokenURL = o.Endpoints.TwitterAuth
		b.tokenAuthInHeader = true
	default:
		b.tokenURL = o.Endpoints.Graph + "/oauth/access_token"
	}
	return b
}

func (b *base) Platform() models.Platform {
	return b.platform
}

func (b *base) log(op string, acc models.SocialAccount) *logrus.Entry {
	return b.logger.WithFields(logging.Fields{
		"platform":   b.platform,
		"operation":  op,
		"account_id": acc.AccountID,
	})
}

// request builds an authorized request. Callers add to Query and Headers
// rather than replacing them.
func (b *base) request(acc models.SocialAccount, op, method, endpoint string) *executor.Request {
	req := &executor.Request{
		Platform:  string(b.platform),
		Operation: op,
		Method:    method,
		Endpoint:  endpoint,
		Query:     url.Values{},
		Headers:   map[string]string{},
	}
	switch b.quirks.Auth {
	case AuthBearer:
		req.Headers["Authorization"] = "Bearer " + acc.AccessToken
	default:
		req.Query.Set("access_token", acc.AccessToken)
	}
	return req
}

func (b *base) do(ctx context.Context, req *executor.Request, out any) (*executor.Response, error) {
	return b.exec.DoJSON(ctx, req, out)
}

// authenticate runs check and folds its outcome into the account status.
// A revoked account is returned untouched without a call.
func (b *base) authenticate(ctx context.Context, acc models.SocialAccount, check func(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error)) models.SocialAccount {
	if acc.Status == models.AccountStatusRevoked {
		return acc
	}
	updated, err := check(ctx, acc)
	if err != nil {
		b.log("authenticate", acc).WithError(err).Info("credential check failed, account expired")
		return lifecycle.Apply(acc, lifecycle.EventAuthenticationFailed)
	}
	return lifecycle.Apply(updated, lifecycle.EventAuthenticated)
}

func (b *base) RefreshToken(ctx context.Context, acc models.SocialAccount) (models.SocialAccount, error) {
	if err := lifecycle.Guard(acc); err != nil {
		return acc, err
	}
	if !acc.HasRefreshToken() {
		return acc, &apperrors.MissingCredentialError{Platform: string(b.platform), Credential: "refresh_token"}
	}

	var tok *oauth2.Token
	var err error
	switch b.quirks.Grant {
	case GrantRefreshToken:
		tok, err = b.refreshGrant(ctx, acc)
	default:
		tok, err = b.exchangeGrant(ctx, acc)
	}
	if err != nil {
		b.log("refresh_token", acc).WithError(err).Info("token refresh failed, account expired")
		return lifecycle.Apply(acc, lifecycle.EventRefreshFailed), nil
	}

	acc.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		acc.RefreshToken = tok.RefreshToken
	}
	expiry := b.expiryOf(tok)
	acc.TokenExpiry = &expiry
	return lifecycle.Apply(acc, lifecycle.EventRefreshed), nil
}

func (b *base) exchangeGrant(ctx context.Context, acc models.SocialAccount) (*oauth2.Token, error) {
	req := &executor.Request{
		Platform:  string(b.platform),
		Operation: "refresh_token",
		Method:    http.MethodGet,
		Endpoint:  b.tokenURL,
		Query: url.Values{
			"client_id":         {b.creds.ClientID},
			"client_secret":     {b.creds.ClientSecret},
			"grant_type":        {"fb_exchange_token"},
			"fb_exchange_token": {acc.RefreshToken},
		},
	}

	resp, err := executor.Retry(ctx, b.exec, string(b.platform), b.exec.MaxRetries(), func(ctx context.Context) (*executor.Response, error) {
		resp, err := b.exec.Execute(ctx, req)
		var reqErr *apperrors.RequestError
		if errors.As(err, &reqErr) {
			return nil, tokenError(string(b.platform), reqErr)
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	var out transfer.GraphTokenResponse
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &apperrors.PlatformError{Platform: string(b.platform), Err: errors.New("token response without access_token")}
	}

	tok := &oauth2.Token{AccessToken: out.AccessToken, TokenType: out.TokenType}
	if out.ExpiresIn > 0 {
		tok.Expiry = b.now().Add(time.Duration(out.ExpiresIn) * time.Second)
	}
	return tok, nil
}

func (b *base) refreshGrant(ctx context.Context, acc models.SocialAccount) (*oauth2.Token, error) {
	style := oauth2.AuthStyleInParams
	if b.tokenAuthInHeader && b.creds.ClientSecret != "" {
		style = oauth2.AuthStyleInHeader
	}
	cfg := &oauth2.Config{
		ClientID:     b.creds.ClientID,
		ClientSecret: b.creds.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: b.tokenURL, AuthStyle: style},
	}

	return executor.Retry(ctx, b.exec, string(b.platform), b.exec.MaxRetries(), func(ctx context.Context) (*oauth2.Token, error) {
		httpCtx := context.WithValue(ctx, oauth2.HTTPClient, b.exec.HTTPClient())
		tok, err := cfg.TokenSource(httpCtx, &oauth2.Token{RefreshToken: acc.RefreshToken}).Token()
		if err != nil {
			return nil, b.classifyOAuth(ctx, err)
		}
		return tok, nil
	})
}

func (b *base) classifyOAuth(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return tokenError(string(b.platform), &apperrors.RequestError{
			StatusCode: re.Response.StatusCode,
			StatusText: http.StatusText(re.Response.StatusCode),
			Endpoint:   b.tokenURL,
			Body:       re.Body,
		})
	}
	return &apperrors.TransientError{Err: err}
}

// tokenError classifies a token endpoint failure. A 400 there means the grant
// itself was refused (invalid_grant and friends), which no retry can fix.
func tokenError(platform string, reqErr *apperrors.RequestError) error {
	if reqErr.StatusCode == http.StatusBadRequest {
		return &apperrors.AuthenticationError{Platform: platform, Err: reqErr}
	}
	return apperrors.Classify(platform, reqErr)
}

func (b *base) expiryOf(tok *oauth2.Token) time.Time {
	now := b.now()
	if !tok.Expiry.IsZero() && tok.Expiry.After(now) {
		return tok.Expiry
	}
	return now.Add(b.quirks.TokenLifetime)
}

func (b *base) requireMedia(content models.Content) error {
	if b.quirks.Content.RequiresMedia && len(content.MediaURLs) == 0 {
		return &apperrors.ValidationError{Field: "media_urls", Message: fmt.Sprintf("%s requires at least one media url", b.platform)}
	}
	return nil
}

func (b *base) validateScheduleTime(at time.Time) error {
	if at.IsZero() || !at.After(b.now()) {
		return &apperrors.ValidationError{Field: "scheduled_time", Message: "must be in the future"}
	}
	return nil
}

// simulatedSchedule acknowledges a schedule request on platforms without
// native scheduling. Publishing at the requested time is left to the caller.
func (b *base) simulatedSchedule(at time.Time) (*transfer.PublishResult, error) {
	id, err := b.ids()
	if err != nil {
		return nil, fmt.Errorf("generate schedule id: %w", err)
	}
	return &transfer.PublishResult{
		ID:            id,
		Status:        transfer.PublishStatusScheduled,
		Simulated:     true,
		ScheduledTime: &at,
		Message:       fmt.Sprintf("%s has no native scheduling; publish at the scheduled time", b.platform),
	}, nil
}

func (b *base) noComments(acc models.SocialAccount, contentID string, err error) []transfer.Comment {
	b.log("get_comments", acc).WithField("content_id", contentID).WithError(err).Warn("comments unavailable")
	return []transfer.Comment{}
}

// insightMetrics flattens Graph insights, keeping each metric's latest value.
// Object values such as reactions by type become name.key entries.
func insightMetrics(insights []transfer.GraphInsight) map[string]float64 {
	metrics := make(map[string]float64)
	for _, in := range insights {
		if len(in.Values) == 0 {
			continue
		}
		raw := in.Values[len(in.Values)-1].Value

		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			metrics[in.Name] = n
			continue
		}
		var obj map[string]float64
		if err := json.Unmarshal(raw, &obj); err == nil {
			for k, v := range obj {
				metrics[in.Name+"."+k] = v
			}
		}
	}
	return metrics
}

func intMetrics(metrics map[string]float64, prefix string, values map[string]int64) {
	for k, v := range values {
		metrics[prefix+k] = float64(v)
	}
}

// decimal parses the decimal strings some ads APIs use for metrics.
func decimal(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
