package service

import "errors"

// 业务错误哨兵。service 层用 fmt.Errorf("%w: ...") 包装补充上下文，
// handler 层用 errors.Is 判定后映射 HTTP 状态码与业务码。
var (
	// ErrValidation 参数缺失或不合法（客户端可修复，400）
	ErrValidation = errors.New("参数校验失败")

	// ErrNotFound 引用的记录不存在或已到期（404）
	ErrNotFound = errors.New("记录不存在")

	// ErrForbidden 已认证但无权操作（403）
	ErrForbidden = errors.New("无权操作")
)
