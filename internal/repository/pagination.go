package repository

import "gorm.io/gorm"

// paginate 按页码截取查询结果。pageSize 非正数时不截取（全量扫描场景），
// 页码最小按 1 处理。
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
