package jofotara_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmahdy/jofotara-api/internal/infrastructure/jofotara"
)

func TestCanonicalDigest_StableAcrossFormatting(t *testing.T) {
	compact := []byte(`<Invoice xmlns="urn:test"><ID>INV-1</ID><Total>20.00</Total></Invoice>`)
	indented := []byte("<Invoice xmlns=\"urn:test\">\n  <ID>INV-1</ID>\n  <Total>20.00</Total>\n</Invoice>\n")

	d1, err := jofotara.CanonicalDigest(compact)
	require.NoError(t, err)
	d2, err := jofotara.CanonicalDigest(indented)
	require.NoError(t, err)

	assert.Len(t, d1, 64, "hex SHA-256")
	assert.NotEqual(t, d1, d2, "whitespace inside element content is significant under C14N")

	again, err := jofotara.CanonicalDigest(compact)
	require.NoError(t, err)
	assert.Equal(t, d1, again, "same bytes, same digest")
}

func TestCanonicalDigest_AttributeOrderDoesNotMatter(t *testing.T) {
	a := []byte(`<Invoice currencyID="JOD" schemeID="ACTIVITY">20.00</Invoice>`)
	b := []byte(`<Invoice schemeID="ACTIVITY" currencyID="JOD">20.00</Invoice>`)

	da, err := jofotara.CanonicalDigest(a)
	require.NoError(t, err)
	db, err := jofotara.CanonicalDigest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db, "C14N sorts attributes before hashing")
}

func TestCanonicalDigest_MalformedInput(t *testing.T) {
	_, err := jofotara.CanonicalDigest([]byte(`<Invoice><Unclosed>`))
	assert.Error(t, err)
}

func TestCanonicalDigest_OfGeneratedDocument(t *testing.T) {
	builder := jofotara.NewBuilderService(jofotara.ProfileExtended)
	res, err := builder.Build(testContext())
	require.NoError(t, err)

	digest, err := jofotara.CanonicalDigest([]byte(res.XML))
	require.NoError(t, err)
	assert.Len(t, digest, 64)
}
