package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terraincognita07/freelancer-admin/internal/models"
)

func TestParsePercent(t *testing.T) {
	assert.Equal(t, 12.5, ParsePercent("12,5", 70))
	assert.Equal(t, 65.0, ParsePercent(" 65 ", 70))
	assert.Equal(t, 70.0, ParsePercent("", 70))
	assert.Equal(t, 70.0, ParsePercent("abc", 70))
	for _, raw := range []string{"inf", "+Inf", "-inf", "Infinity", "NaN", "nan"} {
		assert.Equal(t, 70.0, ParsePercent(raw, 70), raw)
	}
}

func TestResolveVATPercent(t *testing.T) {
	six := 6
	zero := 0
	assert.Equal(t, 6, ResolveVATPercent(25, &six))
	assert.Equal(t, 0, ResolveVATPercent(25, &zero))
	assert.Equal(t, 25, ResolveVATPercent(25, nil))
}

func TestNetFactorFallback(t *testing.T) {
	assert.InDelta(t, 0.7, NetFactor(70), 1e-12)
	assert.InDelta(t, 0.63, NetFactor(0), 1e-12)
	assert.Equal(t, "63.00%", NetRateLabel(0))
	assert.Equal(t, "72.50%", NetRateLabel(72.5))
	assert.InDelta(t, 0.63, NetFactor(math.Inf(1)), 1e-12)
	assert.InDelta(t, 0.63, NetFactor(math.NaN()), 1e-12)
}

func TestJobVATPercent(t *testing.T) {
	six := 6
	withoutRole := models.Job{VATPercent: 25}
	assert.Equal(t, 25, JobVATPercent(withoutRole))

	withRole := models.Job{VATPercent: 25, Role: models.Role{ID: 3, VATPercent: &six}}
	assert.Equal(t, 6, JobVATPercent(withRole))

	withLegacyRole := models.Job{VATPercent: 12, Role: models.Role{ID: 3}}
	assert.Equal(t, 12, JobVATPercent(withLegacyRole))
}
