package entities

import "errors"

// Domain failure kinds. Services return these (possibly wrapped) so callers
// can branch with errors.Is without parsing message text.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("cannot refer yourself")
	ErrAlreadyReferred     = errors.New("referral code already applied")
	ErrQuotaExceeded       = errors.New("daily play limit reached")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimumRedeem  = errors.New("savings below minimum redeemable amount")
	ErrAlreadyEntered      = errors.New("already entered this jar shake")
	ErrNotEligible         = errors.New("not eligible for jar shake")
	ErrVoucherNotFound     = errors.New("voucher not found")
)
