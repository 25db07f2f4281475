package pkg

import "errors"

// Kind 错误大类，handler 据此映射 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindInvalidState
	KindOptionMismatch
	KindValidation
	KindNotFavorite
	KindInvalidParam
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidState:
		return "InvalidState"
	case KindOptionMismatch:
		return "OptionMismatch"
	case KindValidation:
		return "ValidationError"
	case KindNotFavorite:
		return "NotFavorite"
	case KindInvalidParam:
		return "InvalidParam"
	default:
		return "Internal"
	}
}

// AppError 业务错误，Code 对外稳定
type AppError struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *AppError) Error() string { return e.Msg }

func newAppError(kind Kind, code, msg string) *AppError {
	return &AppError{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrConsumerNotFound            = newAppError(KindNotFound, "CONSUMER_NOT_FOUND", "consumer not found")
	ErrFriendNotFound              = newAppError(KindNotFound, "FRIEND_NOT_FOUND", "friend not found")
	ErrFundingNotFound             = newAppError(KindNotFound, "FUNDING_NOT_FOUND", "funding not found")
	ErrProductNotFound             = newAppError(KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrProductOptionNotFound       = newAppError(KindNotFound, "PRODUCT_OPTION_NOT_FOUND", "product option not found")
	ErrAnniversaryCategoryNotFound = newAppError(KindNotFound, "ANNIVERSARY_CATEGORY_NOT_FOUND", "anniversary category not found")

	ErrUnauthorized = newAppError(KindUnauthorized, "USER_UNAUTHORIZED", "not the owner of this resource")

	ErrFundingNotDeletable = newAppError(KindInvalidState, "FUNDING_STATUS_NOT_DELETED", "only a funding that has not started can be deleted")

	ErrProductOptionMismatch = newAppError(KindOptionMismatch, "PRODUCT_OPTION_MISMATCH", "product option does not belong to product")

	ErrDurationTooLong        = newAppError(KindValidation, "FUNDING_DURATION_NOT_VALID", "funding period is longer than 7 days")
	ErrStartDateInPast        = newAppError(KindValidation, "FUNDING_START_DATE_IS_PAST", "start date is in the past")
	ErrAnniversaryBeforeStart = newAppError(KindValidation, "FUNDING_ANNIVERSARY_DATE_IS_PAST", "anniversary date is before start date")
	ErrEndBeforeAnniversary   = newAppError(KindValidation, "FUNDING_END_DATE_IS_PAST", "end date is before anniversary date")

	ErrNotFavorite = newAppError(KindNotFavorite, "FRIEND_NOT_IS_FAVORITE", "only favorite friends can see this funding")

	ErrInvalidParam = newAppError(KindInvalidParam, "INVALID_PARAM", "invalid params")
)

// KindOf 非 AppError 一律视为内部错误
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// AsAppError 取出链上的 AppError
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
