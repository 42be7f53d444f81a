package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSameCurrency(t *testing.T) {
	sum, err := Must(1500, "EUR").Add(Must(300, "EUR"))
	require.NoError(t, err)
	assert.Equal(t, int64(1800), sum.Cents)
	assert.Equal(t, "EUR", sum.Currency)
}

func TestAddCurrencyMismatch(t *testing.T) {
	_, err := Must(1500, "EUR").Add(Must(300, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMultiplyDays(t *testing.T) {
	total := Must(1500, "EUR").MultiplyDays(3)
	assert.Equal(t, int64(4500), total.Cents)
}

func TestString(t *testing.T) {
	assert.Equal(t, "15.00 EUR", Must(1500, "EUR").String())
	assert.Equal(t, "0.05 EUR", Must(5, "EUR").String())
}
