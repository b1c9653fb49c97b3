package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/models"
)

// LinkedInPayload is the stored shape of a repurposed LinkedIn post.
type LinkedInPayload struct {
	Text    string `json:"text"`
	PostURL string `json:"post_url,omitempty"`
}

// TwitterPayload is the stored shape of a repurposed Twitter thread.
type TwitterPayload struct {
	Tweets  []string `json:"tweets"`
	PostURL string   `json:"post_url,omitempty"`
}

// Repurposer turns published posts into platform-specific social payloads and
// records each one as a SocialPost row.
type Repurposer struct {
	generator   ContentGenerator
	socialPosts *database.SocialPostRepo
	baseURL     string
}

func NewRepurposer(generator ContentGenerator, socialPosts *database.SocialPostRepo, baseURL string) *Repurposer {
	return &Repurposer{
		generator:   generator,
		socialPosts: socialPosts,
		baseURL:     baseURL,
	}
}

// LinkedIn generates and records a LinkedIn payload for the post. Tag names
// are appended as hashtags.
func (r *Repurposer) LinkedIn(ctx context.Context, post *models.Post, tags []models.Tag) (*LinkedInPayload, error) {
	text, err := r.generator.LinkedInPost(ctx, post.Title, post.ContentMarkdown)
	if err != nil {
		return nil, err
	}

	if hashtags := formatHashtags(tags); hashtags != "" {
		text = text + "\n\n" + hashtags
	}

	payload := &LinkedInPayload{
		Text:    text,
		PostURL: BuildPostURL(r.baseURL, post.ID.String()),
	}
	if err := r.record(post, models.PlatformLinkedIn, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Twitter generates and records a tweet-thread payload for the post.
func (r *Repurposer) Twitter(ctx context.Context, post *models.Post) (*TwitterPayload, error) {
	tweets, err := r.generator.TwitterThread(ctx, post.Title, post.ContentMarkdown)
	if err != nil {
		return nil, err
	}

	payload := &TwitterPayload{
		Tweets:  tweets,
		PostURL: BuildPostURL(r.baseURL, post.ID.String()),
	}
	if err := r.record(post, models.PlatformTwitter, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// RepurposeAll fans out to the requested platforms concurrently. A platform
// failing does not stop the others; the combined error names every platform
// that failed.
func (r *Repurposer) RepurposeAll(ctx context.Context, post *models.Post, tags []models.Tag, platforms []models.SocialPlatform) error {
	var (
		group, groupCtx = errgroup.WithContext(ctx)
		mu              sync.Mutex
		failures        []string
	)

	fail := func(platform models.SocialPlatform, err error) {
		log.Error().Err(err).Str("platform", string(platform)).Msg("Failed to repurpose post")
		mu.Lock()
		failures = append(failures, fmt.Sprintf("%s: %v", platform, err))
		mu.Unlock()
	}

	for _, platform := range platforms {
		platform := platform
		switch platform {
		case models.PlatformLinkedIn:
			group.Go(func() error {
				if _, err := r.LinkedIn(groupCtx, post, tags); err != nil {
					fail(platform, err)
				}
				return nil
			})
		case models.PlatformTwitter:
			group.Go(func() error {
				if _, err := r.Twitter(groupCtx, post); err != nil {
					fail(platform, err)
				}
				return nil
			})
		default:
			fail(platform, fmt.Errorf("unsupported platform"))
		}
	}

	// Workers swallow their own errors, Wait only synchronizes.
	_ = group.Wait()

	if len(failures) > 0 {
		sort.Strings(failures)
		return fmt.Errorf("some platforms failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (r *Repurposer) record(post *models.Post, platform models.SocialPlatform, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", platform, err)
	}
	return r.socialPosts.Add(&models.SocialPost{
		PostID:   post.ID,
		UserID:   post.UserID,
		Platform: platform,
		Payload:  datatypes.JSON(raw),
	})
}

func formatHashtags(tags []models.Tag) string {
	var parts []string
	for _, tag := range tags {
		if hashtag := FormatHashtag(tag.Name); hashtag != "" {
			parts = append(parts, "#"+hashtag)
		}
	}
	return strings.Join(parts, " ")
}
