package service

import (
	"context"
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/cache"
	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/repository"
)

// StorefrontService 公开门店页业务服务
type StorefrontService struct {
	profileRepo repository.ProfileRepository
	cfg         *config.Config
}

// NewStorefrontService 创建门店页服务
func NewStorefrontService(profileRepo repository.ProfileRepository, cfg *config.Config) *StorefrontService {
	return &StorefrontService{profileRepo: profileRepo, cfg: cfg}
}

// Resolve 根据子域解析公开门店资料，优先读缓存
func (s *StorefrontService) Resolve(ctx context.Context, subdomain string) (*cache.StorefrontProfile, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain == "" {
		return nil, ErrNotFound
	}

	snapshot, hit, err := cache.GetStorefrontProfile(ctx, subdomain)
	if err != nil {
		logger.Warnw("storefront_cache_read_failed", "subdomain", subdomain, "error", err)
	}
	if hit {
		return snapshot, nil
	}

	profile, err := s.profileRepo.GetBySubdomain(subdomain)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	snapshot = cache.BuildStorefrontProfile(profile)
	if err := cache.SetStorefrontProfile(ctx, snapshot, s.cacheTTL()); err != nil {
		logger.Warnw("storefront_cache_write_failed", "subdomain", subdomain, "error", err)
	}
	return snapshot, nil
}

func (s *StorefrontService) cacheTTL() time.Duration {
	if s.cfg != nil && s.cfg.Tenant.CacheTTLSecond > 0 {
		return time.Duration(s.cfg.Tenant.CacheTTLSecond) * time.Second
	}
	return 0 // SetStorefrontProfile 使用默认 TTL
}
