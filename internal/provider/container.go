package provider

import (
	"github.com/fintechful/agent-portal/internal/authz"
	"github.com/fintechful/agent-portal/internal/cache"
	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/identity"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/queue"
	"github.com/fintechful/agent-portal/internal/repository"
	"github.com/fintechful/agent-portal/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config          *config.Config
	QueueClient     *queue.Client
	IdentityClient  *identity.Client
	SessionVerifier *identity.SessionVerifier

	// Repositories
	AdminRepo      repository.AdminRepository
	ProfileRepo    repository.ProfileRepository
	CommissionRepo repository.CommissionRepository
	SMBRepo        repository.SMBRepository
	PayoutRepo     repository.PayoutRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	AgentService      *service.AgentService
	StorefrontService *service.StorefrontService
	CommissionService *service.CommissionService
	EarningsService   *service.EarningsService
	ReferralService   *service.ReferralService
	SMBService        *service.SMBService
	PayoutService     *service.PayoutService
	CSVService        *service.CSVService
	OverviewService   *service.OverviewService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	sessionVerifier, err := identity.NewSessionVerifier(cfg.Clerk.SessionPublicKey)
	if err != nil {
		logger.Errorw("provider_init_session_verifier_failed", "error", err)
		panic(err)
	}

	c := &Container{
		Config:          cfg,
		QueueClient:     queueClient,
		IdentityClient:  identity.NewClient(&cfg.Clerk),
		SessionVerifier: sessionVerifier,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProfileRepo = repository.NewProfileRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.SMBRepo = repository.NewSMBRepository(db)
	c.PayoutRepo = repository.NewPayoutRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.AgentService = service.NewAgentService(c.ProfileRepo, c.IdentityClient, c.Config)
	c.StorefrontService = service.NewStorefrontService(c.ProfileRepo, c.Config)
	c.CommissionService = service.NewCommissionService(c.CommissionRepo, c.ProfileRepo, c.QueueClient)
	c.EarningsService = service.NewEarningsService(c.CommissionRepo, c.ProfileRepo)
	c.ReferralService = service.NewReferralService(c.ProfileRepo, c.CommissionRepo)
	c.SMBService = service.NewSMBService(c.SMBRepo, c.ProfileRepo, c.CommissionRepo)
	c.PayoutService = service.NewPayoutService(c.PayoutRepo, c.ProfileRepo)
	c.CSVService = service.NewCSVService(c.CommissionRepo, c.ProfileRepo, c.Config.Import.MaxRows)
	c.OverviewService = service.NewOverviewService(c.CommissionRepo, c.ProfileRepo)
}
