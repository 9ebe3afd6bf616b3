package vat

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateFromNet(t *testing.T) {
	t.Run("standard rate forward calculation", func(t *testing.T) {
		res, err := CalculateFromNet(dec("100.00"), dec("23.00"), dec("100"))
		require.NoError(t, err)

		assert.True(t, res.VATAmount.Equal(dec("23.00")), "vat = %s", res.VATAmount)
		assert.True(t, res.GrossAmount.Equal(dec("123.00")), "gross = %s", res.GrossAmount)
		assert.True(t, res.DeductibleAmount.Equal(dec("100.00")))
	})

	t.Run("gross equals net plus vat", func(t *testing.T) {
		cases := []struct{ net, rate string }{
			{"100.00", "23.00"},
			{"81.30", "23.00"},
			{"0.01", "13.5"},
			{"19.99", "9"},
			{"1234.56", "0"},
			{"0", "23"},
		}
		for _, tc := range cases {
			res, err := CalculateFromNet(dec(tc.net), dec(tc.rate), dec("100"))
			require.NoError(t, err)
			assert.True(t, res.GrossAmount.Equal(res.NetAmount.Add(res.VATAmount)),
				"net=%s rate=%s: gross %s != net %s + vat %s", tc.net, tc.rate, res.GrossAmount, res.NetAmount, res.VATAmount)
		}
	})

	t.Run("rounds half up to cents", func(t *testing.T) {
		// 10.01 * 13.5% = 1.35135 -> 1.35; 10.03 * 13.5% = 1.35405 -> 1.35
		res, err := CalculateFromNet(dec("10.01"), dec("13.5"), dec("100"))
		require.NoError(t, err)
		assert.True(t, res.VATAmount.Equal(dec("1.35")))

		// 0.50 * 23% = 0.115 -> rounds up to 0.12
		res, err = CalculateFromNet(dec("0.50"), dec("23"), dec("100"))
		require.NoError(t, err)
		assert.True(t, res.VATAmount.Equal(dec("0.12")))
	})

	t.Run("deductible scales with business usage", func(t *testing.T) {
		res, err := CalculateFromNet(dec("200.00"), dec("23.00"), dec("75"))
		require.NoError(t, err)
		assert.True(t, res.DeductibleAmount.Equal(dec("150.00")))
		assert.True(t, res.DeductibleAmount.LessThanOrEqual(res.NetAmount))

		res, err = CalculateFromNet(dec("33.33"), dec("23.00"), dec("50"))
		require.NoError(t, err)
		// 33.33 * 50% = 16.665 -> 16.67 half up
		assert.True(t, res.DeductibleAmount.Equal(dec("16.67")))

		res, err = CalculateFromNet(dec("99.99"), dec("23.00"), dec("0"))
		require.NoError(t, err)
		assert.True(t, res.DeductibleAmount.IsZero())
	})

	t.Run("full business usage deducts the whole net amount", func(t *testing.T) {
		res, err := CalculateFromNet(dec("482.17"), dec("13.5"), dec("100"))
		require.NoError(t, err)
		assert.True(t, res.DeductibleAmount.Equal(dec("482.17")))
	})

	t.Run("rejects negative net amount", func(t *testing.T) {
		_, err := CalculateFromNet(dec("-1"), dec("23.00"), dec("100"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := CalculateFromNet(dec("100"), dec("-23.00"), dec("100"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("rejects business usage outside range", func(t *testing.T) {
		_, err := CalculateFromNet(dec("100"), dec("23"), dec("150"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))

		_, err = CalculateFromNet(dec("100"), dec("23"), dec("-10"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})
}

func TestCalculateFromGross(t *testing.T) {
	t.Run("exact inverse when gross divides cleanly", func(t *testing.T) {
		res, err := CalculateFromGross(dec("123.00"), dec("23.00"), dec("100"))
		require.NoError(t, err)

		assert.True(t, res.NetAmount.Equal(dec("100.00")), "net = %s", res.NetAmount)
		assert.True(t, res.VATAmount.Equal(dec("23.00")), "vat = %s", res.VATAmount)
	})

	t.Run("non-exact reverse rounds the net amount", func(t *testing.T) {
		res, err := CalculateFromGross(dec("100.00"), dec("23.00"), dec("100"))
		require.NoError(t, err)

		// 100 / 1.23 = 81.3008... -> 81.30, vat is the remainder
		assert.True(t, res.NetAmount.Equal(dec("81.30")))
		assert.True(t, res.VATAmount.Equal(dec("18.70")))

		// Re-applying the forward direction reproduces the gross here
		fwd, err := CalculateFromNet(res.NetAmount, dec("23.00"), dec("100"))
		require.NoError(t, err)
		assert.True(t, fwd.VATAmount.Equal(dec("18.70")))
		assert.True(t, fwd.GrossAmount.Equal(dec("100.00")))
	})

	t.Run("vat is always gross minus net", func(t *testing.T) {
		cases := []struct{ gross, rate string }{
			{"100.00", "23.00"},
			{"123.00", "23.00"},
			{"0.01", "23.00"},
			{"0.05", "13.5"},
			{"999.99", "9"},
			{"50.00", "0"},
		}
		for _, tc := range cases {
			res, err := CalculateFromGross(dec(tc.gross), dec(tc.rate), dec("100"))
			require.NoError(t, err)
			assert.True(t, res.VATAmount.Equal(res.GrossAmount.Sub(res.NetAmount)),
				"gross=%s rate=%s", tc.gross, tc.rate)
		}
	})

	t.Run("zero rate passes gross through as net", func(t *testing.T) {
		res, err := CalculateFromGross(dec("42.42"), dec("0"), dec("100"))
		require.NoError(t, err)
		assert.True(t, res.NetAmount.Equal(dec("42.42")))
		assert.True(t, res.VATAmount.IsZero())
	})

	t.Run("deductible uses the derived net amount", func(t *testing.T) {
		res, err := CalculateFromGross(dec("123.00"), dec("23.00"), dec("50"))
		require.NoError(t, err)
		assert.True(t, res.DeductibleAmount.Equal(dec("50.00")))
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		_, err := CalculateFromGross(dec("-0.01"), dec("23"), dec("100"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))

		_, err = CalculateFromGross(dec("100"), dec("23"), dec("100.01"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})
}

func TestRoundTripBoundaries(t *testing.T) {
	// Forward then reverse at cent boundaries. The two directions round
	// independently, so the reverse net may differ from the original by one
	// cent; the definitional identities must still hold on each side.
	rates := []string{"23.00", "13.5", "9", "4.8"}
	nets := []string{"0.01", "0.02", "0.05", "10.005", "81.30", "99.995", "12345.67"}

	for _, r := range rates {
		for _, n := range nets {
			fwd, err := CalculateFromNet(dec(n), dec(r), dec("100"))
			require.NoError(t, err)
			require.True(t, fwd.GrossAmount.Equal(fwd.NetAmount.Add(fwd.VATAmount)))

			rev, err := CalculateFromGross(fwd.GrossAmount, dec(r), dec("100"))
			require.NoError(t, err)
			require.True(t, rev.VATAmount.Equal(rev.GrossAmount.Sub(rev.NetAmount)))

			drift := rev.NetAmount.Sub(fwd.NetAmount.Round(2)).Abs()
			assert.True(t, drift.LessThanOrEqual(dec("0.01")),
				"net=%s rate=%s drifted by %s", n, r, drift)
		}
	}
}

func TestEWorkerAmount(t *testing.T) {
	t.Run("days times daily rate", func(t *testing.T) {
		amount, err := EWorkerAmount(dec("5"), dec("250.00"))
		require.NoError(t, err)
		assert.True(t, amount.Equal(dec("1250.00")))
	})

	t.Run("fractional days round to cents", func(t *testing.T) {
		amount, err := EWorkerAmount(dec("2.5"), dec("33.33"))
		require.NoError(t, err)
		// 2.5 * 33.33 = 83.325 -> 83.33 half up
		assert.True(t, amount.Equal(dec("83.33")))
	})

	t.Run("rejects negative inputs", func(t *testing.T) {
		_, err := EWorkerAmount(dec("-1"), dec("250"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))

		_, err = EWorkerAmount(dec("5"), dec("-250"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})
}

func TestMileageAmount(t *testing.T) {
	t.Run("km times per-km rate", func(t *testing.T) {
		amount, err := MileageAmount(dec("100"), dec("0.3708"))
		require.NoError(t, err)
		assert.True(t, amount.Equal(dec("37.08")))
	})

	t.Run("rounds the product to cents", func(t *testing.T) {
		amount, err := MileageAmount(dec("37.5"), dec("0.3708"))
		require.NoError(t, err)
		// 37.5 * 0.3708 = 13.905 -> 13.91 half up
		assert.True(t, amount.Equal(dec("13.91")))
	})

	t.Run("rejects negative km", func(t *testing.T) {
		_, err := MileageAmount(dec("-5"), dec("0.3708"))
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})
}
