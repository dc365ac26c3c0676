package service

import "errors"

// 服务层哨兵错误，由 handler 统一映射为响应码
var (
	ErrNotFound            = errors.New("记录不存在")
	ErrInvalidInput        = errors.New("参数无效")
	ErrInvalidCredentials  = errors.New("用户名或密码错误")
	ErrInvalidPassword     = errors.New("密码错误")
	ErrSubdomainTaken      = errors.New("子域已被占用")
	ErrSubdomainReserved   = errors.New("子域为保留名称")
	ErrReferrerNotFound    = errors.New("推荐人不存在")
	ErrInvalidStatus       = errors.New("状态不合法")
	ErrInvalidTransition   = errors.New("状态流转不合法")
	ErrProvisionIncomplete = errors.New("身份用户已创建但档案写入失败")
)
