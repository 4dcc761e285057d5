package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500
)

// ========== 存储层错误类型 ==========

var (
	// ErrUniqueConstraintViolation 唯一约束冲突（sn、mac_addr、wwn、name 等）
	ErrUniqueConstraintViolation = stderrors.New("unique constraint violation")
	// ErrCorruptEncodedData JSON 列内容无法解码
	ErrCorruptEncodedData = stderrors.New("corrupt encoded data")
	// ErrMissingRequiredReference 必填外键为空
	ErrMissingRequiredReference = stderrors.New("missing required reference")
	// ErrInvalidEnumValue 枚举字段取值不在定义范围内
	ErrInvalidEnumValue = stderrors.New("invalid enum value")
	// ErrInvalidField 其他字段校验失败
	ErrInvalidField = stderrors.New("invalid field")
	// ErrReferenceNotFound 引用的记录不存在（外键违例或松散引用悬空）
	ErrReferenceNotFound = stderrors.New("referenced record not found")
	// ErrNotFound 记录不存在
	ErrNotFound = stderrors.New("record not found")
)

// Translate 将驱动层错误转换为存储层错误类型，原始错误通过 %w 保留
func Translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case isKind(err):
		return err
	case stderrors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolationMessage(err.Error()):
		return fmt.Errorf("%w: %w", ErrUniqueConstraintViolation, err)
	case stderrors.Is(err, gorm.ErrForeignKeyViolated), isForeignKeyViolationMessage(err.Error()):
		return fmt.Errorf("%w: %w", ErrReferenceNotFound, err)
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// Code 返回错误对应的错误码
func Code(err error) int {
	switch {
	case err == nil:
		return CodeSuccess
	case stderrors.Is(err, ErrNotFound):
		return CodeNotFound
	case stderrors.Is(err, ErrUniqueConstraintViolation):
		return CodeConflict
	case stderrors.Is(err, ErrMissingRequiredReference),
		stderrors.Is(err, ErrInvalidEnumValue),
		stderrors.Is(err, ErrInvalidField),
		stderrors.Is(err, ErrReferenceNotFound):
		return CodeInvalidParam
	}
	return CodeServerError
}

func isKind(err error) bool {
	for _, kind := range []error{
		ErrUniqueConstraintViolation,
		ErrCorruptEncodedData,
		ErrMissingRequiredReference,
		ErrInvalidEnumValue,
		ErrInvalidField,
		ErrReferenceNotFound,
		ErrNotFound,
	} {
		if stderrors.Is(err, kind) {
			return true
		}
	}
	return false
}

// 驱动未开启错误翻译时按错误文本识别：sqlite / postgres
func isUniqueViolationMessage(msg string) bool {
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

func isForeignKeyViolationMessage(msg string) bool {
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23503")
}

// Is 同标准库 errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As 同标准库 errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
