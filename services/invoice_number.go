package services

import (
	"fmt"
	"time"

	"hotel-billing/utils"
)

// Invoice number prefixes. Kitchen and food bills keep the historical
// KITCHEN-/FOOD-INV- formats.
const (
	PrefixKitchen = "KITCHEN"
	PrefixFood    = "FOOD-INV"
	PrefixRoom    = "INV"
	PrefixManual  = "MANUAL"
)

const invoiceSuffixLen = 9

// NewInvoiceNumber returns <prefix>-<unixMillis>-<9 upper alnum>.
func NewInvoiceNumber(prefix string, now time.Time) (string, error) {
	suffix, err := utils.RandomCode(invoiceSuffixLen)
	if err != nil {
		return "", fmt.Errorf("invoice number: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), suffix), nil
}
