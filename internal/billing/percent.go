package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

const FallbackNetRatePercent = 63.0

// ParsePercent accepts "12.5" and "12,5". Blank, malformed or non-finite
// input ("inf", "NaN") yields the fallback.
func ParsePercent(raw string, fallback float64) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil || !isFinite(value) {
		return fallback
	}
	return value
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// ResolveVATPercent applies the read-time VAT rule: a role's current percent
// wins over the percent stored on the job.
func ResolveVATPercent(jobVAT int, roleVAT *int) int {
	if roleVAT != nil {
		return *roleVAT
	}
	return jobVAT
}

func JobVATPercent(job models.Job) int {
	if job.Role.ID == 0 {
		return job.VATPercent
	}
	return ResolveVATPercent(job.VATPercent, job.Role.VATPercent)
}

// EffectiveNetRatePercent treats an unset (zero) or non-finite net rate as
// the fallback.
func EffectiveNetRatePercent(percent float64) float64 {
	if percent == 0 || !isFinite(percent) {
		return FallbackNetRatePercent
	}
	return percent
}

func NetFactor(percent float64) float64 {
	return EffectiveNetRatePercent(percent) / 100
}

func NetRateLabel(percent float64) string {
	return fmt.Sprintf("%.2f%%", EffectiveNetRatePercent(percent))
}
