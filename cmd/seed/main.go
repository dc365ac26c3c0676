package main

import (
	"fmt"
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/config"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"

	"github.com/google/uuid"
)

type seedAgent struct {
	ClerkUserID string
	FullName    string
	Email       string
	Subdomain   string
	Tagline     string
	ReferredBy  *string
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 示例代理：sofia 是 maria 的推荐人，构成一跳推荐链
	sofiaID := "usr_seed_sofia"
	agents := []seedAgent{
		{
			ClerkUserID: sofiaID,
			FullName:    "Sofia Reyes",
			Email:       "sofia@example.com",
			Subdomain:   "sofia",
			Tagline:     "支付方案与商户服务",
		},
		{
			ClerkUserID: "usr_seed_maria",
			FullName:    "Maria Lopez",
			Email:       "maria@example.com",
			Subdomain:   "maria",
			Tagline:     "本地商户的收单专家",
			ReferredBy:  &sofiaID,
		},
		{
			ClerkUserID: "usr_seed_james",
			FullName:    "James Chen",
			Email:       "james@example.com",
			Subdomain:   "james",
			Tagline:     "POS 与收银系统",
		},
	}

	for _, a := range agents {
		var existing models.Profile
		if err := models.DB.Where("clerk_user_id = ?", a.ClerkUserID).First(&existing).Error; err != nil {
			profile := models.Profile{
				ClerkUserID: a.ClerkUserID,
				FullName:    a.FullName,
				Email:       a.Email,
				Subdomain:   a.Subdomain,
				Tagline:     a.Tagline,
				Role:        constants.RoleAgent,
				ReferredBy:  a.ReferredBy,
			}
			if err := models.DB.Create(&profile).Error; err != nil {
				stdLog.Printf("Failed to create agent %s: %v", a.Subdomain, err)
			} else {
				stdLog.Printf("Created agent: %s", a.Subdomain)
			}
		} else {
			stdLog.Printf("Agent already exists: %s", a.Subdomain)
		}
	}

	// 示例佣金：覆盖不同状态、月份与服务商
	now := time.Now()
	lastMonth := now.AddDate(0, -1, 0)
	seedCommission(stdLog.Printf, "usr_seed_maria", "Acme Payments", 520000, constants.CommissionStatusPaid, true, lastMonth)
	seedCommission(stdLog.Printf, "usr_seed_maria", "Beta Processing", 120000, constants.CommissionStatusPending, true, now)
	seedCommission(stdLog.Printf, "usr_seed_sofia", "Acme Payments", 88000, constants.CommissionStatusPaid, false, lastMonth)
	seedCommission(stdLog.Printf, "usr_seed_james", "Gamma Terminals", 45000, constants.CommissionStatusPending, false, now)
	seedCommission(stdLog.Printf, "usr_seed_james", "Gamma Terminals", 30000, constants.CommissionStatusRejected, false, lastMonth)

	// 示例商户推荐
	smbs := []models.SMBReferral{
		{
			AgentID:             "usr_seed_maria",
			BusinessName:        "Sunrise Bakery",
			OwnerName:           "Elena Park",
			OwnerEmail:          "elena@sunrisebakery.example",
			Tier:                constants.SMBTierStarter,
			Location:            "Austin, TX",
			MonthlyRevenueCents: 950000,
			Status:              constants.SMBStatusActive,
		},
		{
			AgentID:             "usr_seed_sofia",
			BusinessName:        "Hillside Auto Repair",
			OwnerName:           "Dan Wu",
			OwnerEmail:          "dan@hillsideauto.example",
			Tier:                constants.SMBTierGrowth,
			Location:            "Denver, CO",
			MonthlyRevenueCents: 2400000,
			Status:              constants.SMBStatusActive,
		},
	}
	for _, smb := range smbs {
		var existing models.SMBReferral
		if err := models.DB.Where("agent_id = ? AND business_name = ?", smb.AgentID, smb.BusinessName).First(&existing).Error; err != nil {
			record := smb
			if err := models.DB.Create(&record).Error; err != nil {
				stdLog.Printf("Failed to create smb %s: %v", smb.BusinessName, err)
			} else {
				stdLog.Printf("Created smb: %s", smb.BusinessName)
			}
		} else {
			stdLog.Printf("SMB already exists: %s", smb.BusinessName)
		}
	}

	// 示例打款记录
	var payoutCount int64
	if err := models.DB.Model(&models.Payout{}).Where("agent_id = ?", "usr_seed_maria").Count(&payoutCount).Error; err == nil && payoutCount == 0 {
		payout := models.Payout{
			AgentID:     "usr_seed_maria",
			AmountCents: 286000,
			Method:      constants.PayoutMethodACH,
			Reference:   "po_" + uuid.NewString()[:8],
			PaidAt:      lastMonth,
			Notes:       fmt.Sprintf("%s 月度结算", commission.MonthKey(lastMonth)),
		}
		if err := models.DB.Create(&payout).Error; err != nil {
			stdLog.Printf("Failed to create payout: %v", err)
		} else {
			stdLog.Printf("Created payout: %s", payout.Reference)
		}
	}

	stdLog.Printf("Seed done")
}

func seedCommission(logf func(format string, v ...interface{}), agentID, provider string, grossCents int64, status string, hasReferrer bool, createdAt time.Time) {
	var count int64
	if err := models.DB.Model(&models.Commission{}).
		Where("agent_id = ? AND provider = ? AND gross_cents = ?", agentID, provider, grossCents).
		Count(&count).Error; err != nil || count > 0 {
		return
	}

	agentShare, overrideShare, err := commission.Split(grossCents, hasReferrer)
	if err != nil {
		logf("Failed to split commission for %s: %v", agentID, err)
		return
	}
	record := models.Commission{
		AgentID:            agentID,
		Provider:           provider,
		GrossCents:         grossCents,
		AgentShareCents:    agentShare,
		OverrideShareCents: overrideShare,
		Status:             status,
	}
	if status == constants.CommissionStatusPaid {
		paidAt := createdAt
		record.PaidAt = &paidAt
	}
	if err := models.DB.Create(&record).Error; err != nil {
		logf("Failed to create commission for %s: %v", agentID, err)
		return
	}
	// 回写创建时间以落入目标统计月份
	if err := models.DB.Model(&models.Commission{}).Where("id = ?", record.ID).Update("created_at", createdAt).Error; err != nil {
		logf("Failed to backdate commission %d: %v", record.ID, err)
	}
	logf("Created commission: %s / %s", agentID, provider)
}
