package transfer

type LinkedInProfile struct {
	ID                 string `json:"id"`
	LocalizedFirstName string `json:"localizedFirstName"`
	LocalizedLastName  string `json:"localizedLastName"`
}

type LinkedInText struct {
	Text string `json:"text"`
}

type LinkedInUGCPost struct {
	Author          string                  `json:"author"`
	LifecycleState  string                  `json:"lifecycleState"`
	SpecificContent LinkedInSpecificContent `json:"specificContent"`
	Visibility      LinkedInVisibility      `json:"visibility"`
}

type LinkedInSpecificContent struct {
	ShareContent LinkedInShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type LinkedInShareContent struct {
	ShareCommentary    LinkedInText         `json:"shareCommentary"`
	ShareMediaCategory string               `json:"shareMediaCategory"`
	Media              []LinkedInShareMedia `json:"media,omitempty"`
}

type LinkedInShareMedia struct {
	Status      string        `json:"status"`
	Media       string        `json:"media"`
	Description *LinkedInText `json:"description,omitempty"`
	Title       *LinkedInText `json:"title,omitempty"`
}

type LinkedInVisibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type LinkedInRegisterUploadRequest struct {
	RegisterUploadRequest LinkedInRegisterUpload `json:"registerUploadRequest"`
}

type LinkedInRegisterUpload struct {
	Recipes              []string                      `json:"recipes"`
	Owner                string                        `json:"owner"`
	ServiceRelationships []LinkedInServiceRelationship `json:"serviceRelationships"`
}

type LinkedInServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type LinkedInRegisterUploadResponse struct {
	Value struct {
		Asset           string `json:"asset"`
		UploadMechanism struct {
			MediaUploadHTTPRequest struct {
				UploadURL string            `json:"uploadUrl"`
				Headers   map[string]string `json:"headers,omitempty"`
			} `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

type LinkedInCreated struct {
	ID string `json:"id"`
}

type LinkedInElements[T any] struct {
	Elements []T `json:"elements"`
	Paging   *struct {
		Count int `json:"count"`
		Start int `json:"start"`
		Total int `json:"total"`
	} `json:"paging,omitempty"`
}

type LinkedInAdAccount struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type LinkedInSocialActions struct {
	CommentsSummary struct {
		TotalFirstLevelComments int64 `json:"totalFirstLevelComments"`
		AggregatedTotalComments int64 `json:"aggregatedTotalComments"`
	} `json:"commentsSummary"`
	LikesSummary struct {
		TotalLikes int64 `json:"totalLikes"`
	} `json:"likesSummary"`
}

type LinkedInShareStatistics struct {
	TotalShareStatistics struct {
		ShareCount             float64 `json:"shareCount"`
		ClickCount             float64 `json:"clickCount"`
		EngagementCount        float64 `json:"engagement"`
		LikeCount              float64 `json:"likeCount"`
		ImpressionCount        float64 `json:"impressionCount"`
		CommentCount           float64 `json:"commentCount"`
		UniqueImpressionsCount float64 `json:"uniqueImpressionsCount"`
	} `json:"totalShareStatistics"`
}

type LinkedInComment struct {
	ID      string       `json:"id"`
	URN     string       `json:"$URN,omitempty"`
	Actor   string       `json:"actor"`
	Message LinkedInText `json:"message"`
	Created *struct {
		Time int64 `json:"time"`
	} `json:"created,omitempty"`
}

type LinkedInCommentRequest struct {
	Actor   string       `json:"actor"`
	Message LinkedInText `json:"message"`
}

type LinkedInMoney struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type LinkedInLocale struct {
	Country  string `json:"country"`
	Language string `json:"language"`
}

// LinkedInRunSchedule bounds are epoch milliseconds.
type LinkedInRunSchedule struct {
	Start int64 `json:"start"`
	End   int64 `json:"end,omitempty"`
}

type LinkedInCampaignRequest struct {
	Account     string               `json:"account"`
	Name        string               `json:"name"`
	Status      string               `json:"status"`
	Type        string               `json:"type"`
	CostType    string               `json:"costType"`
	DailyBudget *LinkedInMoney       `json:"dailyBudget,omitempty"`
	TotalBudget *LinkedInMoney       `json:"totalBudget,omitempty"`
	UnitCost    *LinkedInMoney       `json:"unitCost,omitempty"`
	Locale      LinkedInLocale       `json:"locale"`
	RunSchedule *LinkedInRunSchedule `json:"runSchedule,omitempty"`
}

// LinkedInPatch is the Rest.li partial update envelope.
type LinkedInPatch[T any] struct {
	Patch struct {
		Set T `json:"$set"`
	} `json:"patch"`
}

type LinkedInCampaignPatch struct {
	Name        string               `json:"name,omitempty"`
	Status      string               `json:"status,omitempty"`
	DailyBudget *LinkedInMoney       `json:"dailyBudget,omitempty"`
	TotalBudget *LinkedInMoney       `json:"totalBudget,omitempty"`
	UnitCost    *LinkedInMoney       `json:"unitCost,omitempty"`
	RunSchedule *LinkedInRunSchedule `json:"runSchedule,omitempty"`
}

type LinkedInStatusPatch struct {
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
}

type LinkedInCreativeRequest struct {
	Account   string `json:"account"`
	Campaign  string `json:"campaign"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Type      string `json:"type"`
}

type LinkedInSponsoredContentRequest struct {
	Account  string         `json:"account"`
	Campaign string         `json:"campaign"`
	Creative string         `json:"creative"`
	Name     string         `json:"name,omitempty"`
	Status   string         `json:"status"`
	Locale   LinkedInLocale `json:"locale"`
}

type LinkedInAdAnalytics struct {
	Impressions                float64 `json:"impressions"`
	Clicks                     float64 `json:"clicks"`
	CostInLocalCurrency        string  `json:"costInLocalCurrency"`
	Likes                      float64 `json:"likes"`
	Shares                     float64 `json:"shares"`
	Comments                   float64 `json:"comments"`
	ExternalWebsiteConversions float64 `json:"externalWebsiteConversions"`
}
