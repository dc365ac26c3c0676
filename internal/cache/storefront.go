package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/models"
)

// StorefrontProfile 门店公开信息快照，按子域缓存
type StorefrontProfile struct {
	ClerkUserID string `json:"clerk_user_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AvatarURL   string `json:"avatar_url"`
	Tagline     string `json:"tagline"`
	Bio         string `json:"bio"`
	Subdomain   string `json:"subdomain"`
}

func storefrontKey(subdomain string) string {
	return fmt.Sprintf("storefront:%s", strings.ToLower(strings.TrimSpace(subdomain)))
}

// BuildStorefrontProfile 从档案构建门店快照
func BuildStorefrontProfile(profile *models.Profile) *StorefrontProfile {
	if profile == nil {
		return nil
	}
	return &StorefrontProfile{
		ClerkUserID: profile.ClerkUserID,
		FullName:    profile.FullName,
		Email:       profile.Email,
		Phone:       profile.Phone,
		AvatarURL:   profile.AvatarURL,
		Tagline:     profile.Tagline,
		Bio:         profile.Bio,
		Subdomain:   profile.Subdomain,
	}
}

// GetStorefrontProfile 获取门店快照
func GetStorefrontProfile(ctx context.Context, subdomain string) (*StorefrontProfile, bool, error) {
	if strings.TrimSpace(subdomain) == "" {
		return nil, false, nil
	}
	var snapshot StorefrontProfile
	hit, err := GetJSON(ctx, storefrontKey(subdomain), &snapshot)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &snapshot, true, nil
}

// SetStorefrontProfile 写入门店快照
func SetStorefrontProfile(ctx context.Context, snapshot *StorefrontProfile, ttl time.Duration) error {
	if snapshot == nil || snapshot.Subdomain == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return SetJSON(ctx, storefrontKey(snapshot.Subdomain), snapshot, ttl)
}

// DelStorefrontProfile 删除门店快照（档案变更后失效）
func DelStorefrontProfile(ctx context.Context, subdomain string) error {
	if strings.TrimSpace(subdomain) == "" {
		return nil
	}
	return Del(ctx, storefrontKey(subdomain))
}
