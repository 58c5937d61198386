package platform

import (
	"fmt"

	"github.com/maheshrc27/socialbridge/internal/apperrors"
	"github.com/maheshrc27/socialbridge/internal/models"
)

// Registry hands out the adapter for a platform tag. Adapters hold no
// per-call state, so one instance per platform serves every request.
type Registry struct {
	content map[models.Platform]ContentAdapter
	ads     map[models.Platform]AdAdapter
}

func NewRegistry(opts Options) *Registry {
	o := opts.withDefaults()
	return &Registry{
		content: map[models.Platform]ContentAdapter{
			models.PlatformFacebook:  newFacebookContent(o),
			models.PlatformInstagram: newInstagramContent(o),
			models.PlatformLinkedIn:  newLinkedInContent(o),
			models.PlatformTwitter:   newTwitterContent(o),
		},
		ads: map[models.Platform]AdAdapter{
			models.PlatformFacebook:  newMetaAds(models.PlatformFacebook, o),
			models.PlatformInstagram: newMetaAds(models.PlatformInstagram, o),
			models.PlatformLinkedIn:  newLinkedInAds(o),
			models.PlatformTwitter:   newTwitterAds(o),
		},
	}
}

func (r *Registry) Content(p models.Platform) (ContentAdapter, error) {
	a, ok := r.content[p]
	if !ok {
		return nil, unsupported(p)
	}
	return a, nil
}

func (r *Registry) Ads(p models.Platform) (AdAdapter, error) {
	a, ok := r.ads[p]
	if !ok {
		return nil, unsupported(p)
	}
	return a, nil
}

func unsupported(p models.Platform) error {
	return &apperrors.ValidationError{Field: "platform", Message: fmt.Sprintf("unsupported platform %q", p)}
}
