package Models

import (
	"log"
	"os"
	"strconv"
)

// Pricing defaults, overridable through the environment. VAT applies to every
// non-exempt line; the margin default seeds suggested sell prices in the UI.
var (
	DefaultVatRate       = 20.0
	DefaultMarginPercent = 40.0
)

// LoadPricingDefaults reads DEFAULT_VAT_RATE and DEFAULT_MARGIN_PERCENT from
// the environment, keeping the built-in values when unset or malformed.
func LoadPricingDefaults() {
	if raw := os.Getenv("DEFAULT_VAT_RATE"); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate >= 0 {
			DefaultVatRate = rate
		} else {
			log.Printf("Ignoring invalid DEFAULT_VAT_RATE %q", raw)
		}
	}
	if raw := os.Getenv("DEFAULT_MARGIN_PERCENT"); raw != "" {
		if margin, err := strconv.ParseFloat(raw, 64); err == nil && margin >= 0 {
			DefaultMarginPercent = margin
		} else {
			log.Printf("Ignoring invalid DEFAULT_MARGIN_PERCENT %q", raw)
		}
	}
}
