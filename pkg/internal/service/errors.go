package service

import "errors"

// 服务层哨兵错误.
// "实体不存在"的幂等场景以 false/nil 返回值表达，错误保留给 I/O 与完整性故障；
// ErrNotFound 只用于"源文件缺失"这类必须中止的情况.
var (
	// ErrNotFound 源文件或必要实体缺失，操作无法继续.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity 元数据层约束冲突（重复存储路径、非法枚举值）.
	ErrIntegrity = errors.New("integrity violation")
	// ErrInvalidInput 入参非法（空 ID、未知枚举等）.
	ErrInvalidInput = errors.New("invalid input")
)
