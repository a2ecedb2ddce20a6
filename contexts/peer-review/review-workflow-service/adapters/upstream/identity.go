package upstream

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"confman/contexts/peer-review/review-workflow-service/domain/entities"

	"github.com/patrickmn/go-cache"
)

const DefaultIdentityCacheTTL = 5 * time.Minute

type userProfileDTO struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// IdentityClient batch-resolves user profiles. Resolved profiles are cached
// per caller token and user id: the identity service may show different
// profile fields to different callers.
type IdentityClient struct {
	client client
	cache  *cache.Cache
}

func NewIdentityClient(cfg Config, cacheTTL time.Duration) *IdentityClient {
	if cacheTTL <= 0 {
		cacheTTL = DefaultIdentityCacheTTL
	}
	return &IdentityClient{
		client: newClient("identity-service", cfg),
		cache:  cache.New(cacheTTL, cacheTTL*2),
	}
}

func (c *IdentityClient) ResolveUsers(
	ctx context.Context,
	authToken string,
	userIDs []string,
) (map[string]entities.UserProfile, error) {
	result := make(map[string]entities.UserProfile, len(userIDs))
	missing := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if cached, found := c.cache.Get(cacheKey(authToken, id)); found {
			if profile, ok := cached.(entities.UserProfile); ok {
				result[id] = profile
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}
	sort.Strings(missing)

	query := url.Values{}
	query.Set("ids", strings.Join(missing, ","))
	var payload map[string]userProfileDTO
	code, err := c.client.do(ctx, http.MethodGet, "/users", authToken, query, nil, &payload)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return result, nil
	}

	for id, item := range payload {
		profile := entities.UserProfile{
			UserID:   id,
			FullName: strings.TrimSpace(item.FullName),
			Email:    strings.TrimSpace(item.Email),
		}
		c.cache.Set(cacheKey(authToken, id), profile, cache.DefaultExpiration)
		result[id] = profile
	}
	return result, nil
}

func cacheKey(authToken string, userID string) string {
	sum := sha256.Sum256([]byte(authToken))
	return "user:" + hex.EncodeToString(sum[:]) + ":" + userID
}
