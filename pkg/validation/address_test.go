package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	valid := strings.Repeat("ab", 22)

	assert.NoError(t, ValidateAddress(valid))
	assert.NoError(t, ValidateAddress("0x"+valid))
	assert.NoError(t, ValidateAddress("0X"+strings.ToUpper(valid)))

	assert.Error(t, ValidateAddress(""))
	assert.Error(t, ValidateAddress(valid[:42]), "too short")
	assert.Error(t, ValidateAddress(valid+"ff"), "too long")
	assert.Error(t, ValidateAddress(strings.Repeat("zz", 22)), "not hex")
}

func TestNormalizeAddress(t *testing.T) {
	valid := strings.Repeat("ab", 22)

	assert.Equal(t, valid, NormalizeAddress(valid))
	assert.Equal(t, valid, NormalizeAddress("0x"+valid))
	assert.Equal(t, valid, NormalizeAddress("0X"+strings.ToUpper(valid)))
}

func TestValidateAndNormalizeAddress(t *testing.T) {
	valid := strings.Repeat("ab", 22)

	got, err := ValidateAndNormalizeAddress("0x" + strings.ToUpper(valid))
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	_, err = ValidateAndNormalizeAddress("nonsense")
	assert.Error(t, err)
}
