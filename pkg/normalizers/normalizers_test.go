package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestDomainRootAndSuffix(t *testing.T) {
	tests := []struct {
		name       string
		domain     *string
		wantRoot   *string
		wantSuffix *string
	}{
		{name: "absent", domain: nil},
		{name: "no dot", domain: strPtr("localhost")},
		{name: "empty", domain: strPtr("")},
		{name: "two labels", domain: strPtr("a.com"), wantRoot: strPtr("a"), wantSuffix: strPtr("com")},
		{name: "subdomain", domain: strPtr("mail.acme.de"), wantRoot: strPtr("acme"), wantSuffix: strPtr("de")},
		{name: "multi label suffix is not special cased", domain: strPtr("sub.acme.co.uk"), wantRoot: strPtr("co"), wantSuffix: strPtr("uk")},
		{name: "trailing dot keeps empty suffix", domain: strPtr("acme."), wantRoot: strPtr("acme"), wantSuffix: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, suffix := DomainRootAndSuffix(tt.domain)
			assert.Equal(t, tt.wantRoot, root)
			assert.Equal(t, tt.wantSuffix, suffix)
		})
	}
}

func TestApplyChain(t *testing.T) {
	assert.Equal(t, "acme.com", ApplyChain("  ACME.com ", "trim", "lowercase"))
	assert.Equal(t, "Acme", ApplyChain("Acme", "does_not_exist"))
	assert.Equal(t, "ACME", ApplyChain(" acme ", "trim", "uppercase"))
}

func TestKey(t *testing.T) {
	t.Run("absent stays absent", func(t *testing.T) {
		assert.Nil(t, Key(nil, "trim"))
	})

	t.Run("emptied value becomes absent", func(t *testing.T) {
		assert.Nil(t, Key(strPtr("   "), "trim"))
	})

	t.Run("value is normalized", func(t *testing.T) {
		got := Key(strPtr(" X.COM "), "trim", "lowercase")
		require.NotNil(t, got)
		assert.Equal(t, "x.com", *got)
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]string{"trim", "lowercase", "ndomain"}))
	assert.Error(t, Validate([]string{"trim", "soundex"}))
}

func TestNormalizeDomain(t *testing.T) {
	tests := map[string]string{
		"https://www.Acme.com/about": "acme.com",
		"acme.com.":                  "acme.com",
		"www.acme.co.uk":             "acme.co.uk",
		"acme.com:8080":              "acme.com",
		"sales@acme.de":              "acme.de",
		"acme":                       "acme",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDomain(in), in)
	}
}

func TestNormalizeCompanyName(t *testing.T) {
	assert.Equal(t, "acme", NormalizeCompanyName("Acme, Inc."))
	assert.Equal(t, "acme widgets", NormalizeCompanyName("  ACME   Widgets LLC"))
	assert.Equal(t, "müller", NormalizeCompanyName("Müller GmbH"))
}

func TestNFC(t *testing.T) {
	decomposed := "Mu\u0308ller"
	assert.Equal(t, "M\u00fcller", NFC(decomposed))
}
