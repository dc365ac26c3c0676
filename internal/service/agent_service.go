package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fintechful/agent-portal/internal/cache"
	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/identity"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// AgentService 代理档案业务服务
type AgentService struct {
	profileRepo repository.ProfileRepository
	identity    *identity.Client
	cfg         *config.Config
}

// NewAgentService 创建代理档案服务
func NewAgentService(profileRepo repository.ProfileRepository, identityClient *identity.Client, cfg *config.Config) *AgentService {
	return &AgentService{
		profileRepo: profileRepo,
		identity:    identityClient,
		cfg:         cfg,
	}
}

// CreateAgentInput 管理端创建代理输入
type CreateAgentInput struct {
	FullName   string
	Email      string
	Phone      string
	Subdomain  string
	Tagline    string
	Bio        string
	Role       string
	ReferredBy string // 推荐人 clerk_user_id
}

// AdminUpdateAgentInput 管理端更新代理输入（nil 表示不修改）
type AdminUpdateAgentInput struct {
	FullName   *string
	Email      *string
	Phone      *string
	AvatarURL  *string
	Tagline    *string
	Bio        *string
	Subdomain  *string
	Role       *string
	ReferredBy *string // 空字符串表示清除推荐关系
}

// UpdateOwnProfileInput 代理自助更新输入（nil 表示不修改）
type UpdateOwnProfileInput struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
	Tagline   *string
	Bio       *string
}

// CreateAgent 创建代理：先在身份服务创建用户，再落档案。
// 身份服务创建成功但档案落库失败时，错误信息携带已创建的用户ID，留待人工修复。
func (s *AgentService) CreateAgent(ctx context.Context, input CreateAgentInput) (*models.Profile, error) {
	if s.profileRepo == nil {
		return nil, ErrNotFound
	}
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	if fullName == "" || email == "" {
		return nil, ErrInvalidInput
	}

	subdomain, err := s.validateSubdomain(input.Subdomain)
	if err != nil {
		return nil, err
	}
	existing, err := s.profileRepo.GetBySubdomain(subdomain)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSubdomainTaken
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = constants.RoleAgent
	}
	if role != constants.RoleAgent && role != constants.RoleSuperAdmin {
		return nil, ErrInvalidInput
	}

	var referredBy *string
	if trimmed := strings.TrimSpace(input.ReferredBy); trimmed != "" {
		referrer, err := s.profileRepo.GetByClerkUserID(trimmed)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrReferrerNotFound
		}
		referredBy = &referrer.ClerkUserID
	}

	user, err := s.identity.CreateUser(ctx, identity.CreateUserInput{
		Email:    email,
		FullName: fullName,
	})
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ClerkUserID: user.ID,
		FullName:    fullName,
		Email:       email,
		Phone:       strings.TrimSpace(input.Phone),
		Tagline:     strings.TrimSpace(input.Tagline),
		Bio:         input.Bio,
		Subdomain:   subdomain,
		Role:        role,
		ReferredBy:  referredBy,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSubdomainTaken
		}
		return nil, fmt.Errorf("%w: identity user %s: %v", ErrProvisionIncomplete, user.ID, err)
	}
	return profile, nil
}

// UpdateAgent 管理端更新代理档案（任意字段）
func (s *AgentService) UpdateAgent(ctx context.Context, id uint, input AdminUpdateAgentInput) (*models.Profile, error) {
	if s.profileRepo == nil {
		return nil, ErrNotFound
	}
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	oldSubdomain := profile.Subdomain
	if input.Subdomain != nil {
		subdomain, err := s.validateSubdomain(*input.Subdomain)
		if err != nil {
			return nil, err
		}
		if subdomain != profile.Subdomain {
			existing, err := s.profileRepo.GetBySubdomain(subdomain)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != profile.ID {
				return nil, ErrSubdomainTaken
			}
			profile.Subdomain = subdomain
		}
	}
	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, ErrInvalidInput
		}
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		if strings.TrimSpace(*input.Email) == "" {
			return nil, ErrInvalidInput
		}
		profile.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	}
	if input.Tagline != nil {
		profile.Tagline = strings.TrimSpace(*input.Tagline)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if role != constants.RoleAgent && role != constants.RoleSuperAdmin {
			return nil, ErrInvalidInput
		}
		profile.Role = role
	}
	if input.ReferredBy != nil {
		trimmed := strings.TrimSpace(*input.ReferredBy)
		if trimmed == "" {
			profile.ReferredBy = nil
		} else {
			if trimmed == profile.ClerkUserID {
				return nil, ErrInvalidInput
			}
			referrer, err := s.profileRepo.GetByClerkUserID(trimmed)
			if err != nil {
				return nil, err
			}
			if referrer == nil {
				return nil, ErrReferrerNotFound
			}
			profile.ReferredBy = &referrer.ClerkUserID
		}
	}

	if err := s.profileRepo.Update(profile); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSubdomainTaken
		}
		return nil, err
	}

	s.invalidateStorefront(ctx, oldSubdomain)
	if profile.Subdomain != oldSubdomain {
		s.invalidateStorefront(ctx, profile.Subdomain)
	}
	return profile, nil
}

// UpdateOwnProfile 代理更新本人档案（子域与角色不可自助修改）
func (s *AgentService) UpdateOwnProfile(ctx context.Context, clerkUserID string, input UpdateOwnProfileInput) (*models.Profile, error) {
	profile, err := s.GetByClerkUserID(clerkUserID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, ErrInvalidInput
		}
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	}
	if input.Tagline != nil {
		profile.Tagline = strings.TrimSpace(*input.Tagline)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	s.invalidateStorefront(ctx, profile.Subdomain)
	return profile, nil
}

// GetByClerkUserID 根据身份服务用户ID获取档案
func (s *AgentService) GetByClerkUserID(clerkUserID string) (*models.Profile, error) {
	if s.profileRepo == nil || strings.TrimSpace(clerkUserID) == "" {
		return nil, ErrNotFound
	}
	profile, err := s.profileRepo.GetByClerkUserID(strings.TrimSpace(clerkUserID))
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// GetByID 根据主键获取档案
func (s *AgentService) GetByID(id uint) (*models.Profile, error) {
	if s.profileRepo == nil {
		return nil, ErrNotFound
	}
	profile, err := s.profileRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// List 查询代理档案列表
func (s *AgentService) List(filter repository.ProfileListFilter) ([]models.Profile, int64, error) {
	if s.profileRepo == nil {
		return nil, 0, ErrNotFound
	}
	return s.profileRepo.List(filter)
}

// validateSubdomain 归一化并校验子域：小写、合法字符、非保留名称
func (s *AgentService) validateSubdomain(raw string) (string, error) {
	subdomain := strings.ToLower(strings.TrimSpace(raw))
	if !subdomainPattern.MatchString(subdomain) {
		return "", ErrInvalidInput
	}
	if s.cfg != nil {
		for _, reserved := range s.cfg.Tenant.ReservedLabels {
			if strings.EqualFold(reserved, subdomain) {
				return "", ErrSubdomainReserved
			}
		}
	}
	return subdomain, nil
}

func (s *AgentService) invalidateStorefront(ctx context.Context, subdomain string) {
	if err := cache.DelStorefrontProfile(ctx, subdomain); err != nil {
		logger.Warnw("storefront_cache_invalidate_failed", "subdomain", subdomain, "error", err)
	}
}

// isUniqueViolation 判断是否唯一约束冲突
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique") || strings.Contains(message, "duplicate key")
}
