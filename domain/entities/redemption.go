package entities

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RedemptionStatus is the lifecycle state of an issued voucher.
// Consumed and expired are terminal.
type RedemptionStatus string

const (
	RedemptionStatusIssued   RedemptionStatus = "issued"
	RedemptionStatusConsumed RedemptionStatus = "consumed"
	RedemptionStatusExpired  RedemptionStatus = "expired"
)

// IsTerminal reports whether the status permits no further transitions.
func (s RedemptionStatus) IsTerminal() bool {
	return s == RedemptionStatusConsumed || s == RedemptionStatusExpired
}

// Redemption terms, fixed by product policy.
var (
	// MinRedeemableSavings is the savings floor below which redemption is refused.
	MinRedeemableSavings = decimal.NewFromInt(20)
	// VoucherConversionRate is the fraction of savings returned as voucher value.
	VoucherConversionRate = decimal.NewFromFloat(0.8)
)

// VoucherValidity is how long an issued voucher stays redeemable.
const VoucherValidity = 30 * 24 * time.Hour

// Redemption is one voucher issuance.
type Redemption struct {
	ID           int64            `db:"id"`
	AccountID    int64            `db:"account_id"`
	PartnerID    string           `db:"partner_id"`
	VoucherCode  string           `db:"voucher_code"`
	VoucherValue decimal.Decimal  `db:"voucher_value"`
	SikaSpent    int64            `db:"sika_spent"`
	Status       RedemptionStatus `db:"status"`
	ExpiresAt    time.Time        `db:"expires_at"`
	CreatedAt    time.Time        `db:"created_at"`
}

// VoucherValueFor computes the voucher value for a savings total at the
// fixed conversion rate.
func VoucherValueFor(savings decimal.Decimal) decimal.Decimal {
	return savings.Mul(VoucherConversionRate)
}

// GenerateVoucherCode produces an opaque voucher code: "TAP" plus the
// issuance time in base36 plus four random base36 characters. Uniqueness is
// enforced by the store; the random suffix keeps same-millisecond issuances
// from colliding.
func GenerateVoucherCode(now time.Time) (string, error) {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("random generation failed: %w", err)
		}
		suffix[i] = alphabet[n.Int64()]
	}

	stamp := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "TAP" + stamp + string(suffix), nil
}
