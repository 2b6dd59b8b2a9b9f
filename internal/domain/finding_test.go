package domain_test

import (
	"strings"
	"testing"

	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFinding_Label(t *testing.T) {
	f := domain.Finding{CheckID: "python.flask.missing-auth", Message: "Missing authorization on route"}
	assert.Equal(t, "Missing authorization on route", f.Label())

	f.Message = "  "
	assert.Equal(t, "python.flask.missing-auth", f.Label())
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, domain.SeverityError, domain.NormalizeSeverity("error"))
	assert.Equal(t, domain.SeverityWarning, domain.NormalizeSeverity(""))
	assert.Equal(t, domain.SeverityInfo, domain.NormalizeSeverity(" Info "))
}

func TestEnrichPrompt(t *testing.T) {
	out := domain.EnrichPrompt("Build a Flask login route")

	assert.True(t, strings.HasPrefix(out, "Build a Flask login route\n\nSecurity Addendum:\n- "))
	for _, g := range domain.SecurityGuidelines {
		assert.Contains(t, out, "- "+g)
	}
	assert.Equal(t, len(domain.SecurityGuidelines), strings.Count(out, "\n- "))
}
