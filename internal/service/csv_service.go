package service

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fintechful/agent-portal/internal/commission"
	"github.com/fintechful/agent-portal/internal/constants"
	"github.com/fintechful/agent-portal/internal/logger"
	"github.com/fintechful/agent-portal/internal/models"
	"github.com/fintechful/agent-portal/internal/repository"
)

const csvDateLayout = "2006-01-02"

const exportPageSize = 500

var exportHeader = []string{
	"agent_name", "subdomain", "provider_date", "import_date",
	"provider", "gross", "agent_share", "status", "paid_date", "notes",
}

// CSVService 佣金台账的 CSV 导入导出服务
type CSVService struct {
	commissionRepo repository.CommissionRepository
	profileRepo    repository.ProfileRepository
	maxRows        int
}

// NewCSVService 创建 CSV 导入导出服务。maxRows 限制单次导入的数据行数，非正数不限制。
func NewCSVService(commissionRepo repository.CommissionRepository, profileRepo repository.ProfileRepository, maxRows int) *CSVService {
	return &CSVService{
		commissionRepo: commissionRepo,
		profileRepo:    profileRepo,
		maxRows:        maxRows,
	}
}

// ImportResult 导入结果统计
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// ImportCommissions 导入佣金 CSV。
// 列顺序：subdomain, provider, gross_dollar_amount[, provider_date, notes, recurring]。
// 子域不存在或金额不可解析的行跳过并计数，逐行原因只进日志。
// 数据行数超过 maxRows 时整体拒绝，已写入的行不回滚。
func (s *CSVService) ImportCommissions(r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	profiles := make(map[string]*models.Profile)
	line := 0
	dataRows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line++
			result.Skipped++
			logger.Warnw("commission_import_row_unreadable", "line", line, "error", err)
			continue
		}
		line++
		if line == 1 && isHeaderRow(row) {
			continue
		}
		dataRows++
		if s.maxRows > 0 && dataRows > s.maxRows {
			return result, fmt.Errorf("%w: 导入行数超过上限 %d", ErrInvalidInput, s.maxRows)
		}
		if len(row) < 3 {
			result.Skipped++
			logger.Warnw("commission_import_row_short", "line", line, "fields", len(row))
			continue
		}

		subdomain := strings.ToLower(strings.TrimSpace(row[0]))
		provider := strings.TrimSpace(row[1])
		if subdomain == "" || provider == "" {
			result.Skipped++
			logger.Warnw("commission_import_row_incomplete", "line", line)
			continue
		}

		profile, ok := profiles[subdomain]
		if !ok {
			profile, err = s.profileRepo.GetBySubdomain(subdomain)
			if err != nil {
				return result, err
			}
			profiles[subdomain] = profile
		}
		if profile == nil {
			result.Skipped++
			logger.Warnw("commission_import_unknown_subdomain", "line", line, "subdomain", subdomain)
			continue
		}

		grossCents, err := commission.ParseDollarAmount(row[2])
		if err != nil || grossCents < 0 {
			result.Skipped++
			logger.Warnw("commission_import_bad_amount", "line", line, "raw", row[2])
			continue
		}
		agentShare, overrideShare, err := commission.Split(grossCents, profile.HasReferrer())
		if err != nil {
			result.Skipped++
			logger.Warnw("commission_import_split_failed", "line", line, "error", err)
			continue
		}

		record := &models.Commission{
			AgentID:            profile.ClerkUserID,
			Provider:           provider,
			GrossCents:         grossCents,
			AgentShareCents:    agentShare,
			OverrideShareCents: overrideShare,
			Status:             constants.CommissionStatusPending,
		}
		if len(row) > 3 {
			if parsed, err := time.Parse(csvDateLayout, strings.TrimSpace(row[3])); err == nil {
				record.ProviderDate = &parsed
			}
		}
		if len(row) > 4 {
			record.Notes = strings.TrimSpace(row[4])
		}
		if len(row) > 5 {
			record.Recurring = parseCSVBool(row[5])
		}

		if err := s.commissionRepo.Create(record); err != nil {
			return result, err
		}
		result.Added++
	}
	return result, nil
}

// ExportCommissions 导出佣金 CSV，分页扫描全量匹配记录。
// 所有字段带引号，金额为 2 位小数美元。
func (s *CSVService) ExportCommissions(w io.Writer, filter repository.CommissionListFilter) error {
	buf := bufio.NewWriter(w)
	if err := writeQuotedRow(buf, exportHeader); err != nil {
		return err
	}

	names := make(map[string][2]string) // agent_id -> {full_name, subdomain}
	filter.PageSize = exportPageSize
	for page := 1; ; page++ {
		filter.Page = page
		records, total, err := s.commissionRepo.List(filter)
		if err != nil {
			return err
		}
		for i := range records {
			record := &records[i]
			identity, ok := names[record.AgentID]
			if !ok {
				profile, err := s.profileRepo.GetByClerkUserID(record.AgentID)
				if err != nil {
					return err
				}
				if profile != nil {
					identity = [2]string{profile.FullName, profile.Subdomain}
				}
				names[record.AgentID] = identity
			}
			if err := writeQuotedRow(buf, exportRow(record, identity[0], identity[1])); err != nil {
				return err
			}
		}
		if int64(page*exportPageSize) >= total || len(records) == 0 {
			break
		}
	}
	return buf.Flush()
}

func exportRow(record *models.Commission, fullName, subdomain string) []string {
	providerDate := ""
	if record.ProviderDate != nil {
		providerDate = record.ProviderDate.Format(csvDateLayout)
	}
	// 已结清但缺 paid_at 的历史数据退回创建时间
	paidDate := ""
	if record.Status == constants.CommissionStatusPaid {
		paidDate = record.EffectivePaidAt().Format(csvDateLayout)
	}
	return []string{
		fullName,
		subdomain,
		providerDate,
		record.CreatedAt.Format(csvDateLayout),
		record.Provider,
		models.FormatCents(record.GrossCents),
		models.FormatCents(record.AgentShareCents),
		record.Status,
		paidDate,
		record.Notes,
	}
}

// writeQuotedRow 写一行 CSV，所有字段强制双引号包裹
func writeQuotedRow(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
		if _, err := w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
			return err
		}
		if err := w.WriteByte('"'); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "subdomain")
}

func parseCSVBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
