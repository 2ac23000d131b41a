package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind 错误分类，决定调用方如何处理
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	// KindValidation 输入格式错误，事务开始前拒绝
	KindValidation
	KindNotFound
	// KindStateConflict 预期内的状态冲突，不应重试
	KindStateConflict
	// KindResource 资源不足，余额变化前无法继续
	KindResource
	// KindIntegrity 约束被意外破坏，事务已整体回滚
	KindIntegrity
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStateConflict:
		return "state_conflict"
	case KindResource:
		return "resource"
	case KindIntegrity:
		return "integrity"
	default:
		return "internal"
	}
}

// Error 带分类的业务错误；同一实例可用 errors.Is 比较
type Error struct {
	Kind   ErrorKind
	Reason string
	Msg    string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrInvalidReference = &Error{KindValidation, "invalid_reference", "invalid Twitter/X post reference"}
	ErrInvalidHandle    = &Error{KindValidation, "invalid_handle", "handle must start with @, contain no spaces and at most 15 letters, digits or underscores"}
	ErrInvalidCost      = &Error{KindValidation, "invalid_cost", "boost cost must be positive"}
	ErrInvalidTarget    = &Error{KindValidation, "invalid_target", "target engagements must not be negative"}

	ErrAccountNotFound = &Error{KindNotFound, "account_not_found", "account not found"}
	ErrPostNotFound    = &Error{KindNotFound, "post_not_found", "post not found"}

	ErrAlreadyClaimed   = &Error{KindStateConflict, "already_claimed", "you have already claimed credits for this post"}
	ErrSelfEngagement   = &Error{KindStateConflict, "self_engagement", "cannot claim engagement on your own post"}
	ErrPostNotActive    = &Error{KindStateConflict, "post_not_active", "post is not active"}
	ErrHandleAlreadySet = &Error{KindStateConflict, "handle_already_set", "handle is already linked"}
	ErrHandleTaken      = &Error{KindStateConflict, "handle_taken", "handle is linked to another account"}
	ErrHandleRequired   = &Error{KindStateConflict, "handle_required", "link a handle before claiming the signup bonus"}
	ErrAccountInactive  = &Error{KindStateConflict, "account_inactive", "account is deactivated"}
	ErrForbidden        = &Error{KindStateConflict, "forbidden", "not allowed to modify this post"}

	ErrInsufficientCredits = &Error{KindResource, "insufficient_credits", "insufficient credits"}

	ErrIntegrityViolation = &Error{KindIntegrity, "integrity_violation", "ledger integrity violation"}
)

// KindOf 对任意错误分类；未知错误视为 internal
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf 返回机器可读的原因码
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "internal"
}

// integrity 把意外的约束失败包装成 ErrIntegrityViolation
func integrity(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrIntegrityViolation, fmt.Sprintf(format, args...))
}

// classify 识别已知业务错误；唯一键/检查约束冲突视为完整性破坏
func classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrIntegrityViolation, err)
	}
	return err
}
