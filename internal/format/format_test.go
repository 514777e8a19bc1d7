package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFmtCurrency(t *testing.T) {
	t.Parallel()

	require.Equal(t, "¥12,345", FmtCurrency(12345, "JPY", "ja"))
	require.Equal(t, "¥980", FmtCurrency(980, "jpy", "ja"))
	require.Equal(t, "$1,234.05", FmtCurrency(123405, "USD", "en"))
	require.Equal(t, "-$0.99", FmtCurrency(-99, "USD", "en"))
	require.Equal(t, "¥0", FmtCurrency(0, "JPY", "en"))
}

func TestFmtCurrencyUnknownCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "XYZ 1,500", FmtCurrency(1500, "xyz", "en"))
}

func TestFmtAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$12.50", FmtAmount(12.5, "USD", "en"))
	require.Equal(t, "¥1,180", FmtAmount(1180, "JPY", "ja"))
	require.Equal(t, "¥1,181", FmtAmount(1180.6, "JPY", "ja"))
}

func TestFmtDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "2024-03-09", FmtDate(ts, "ja-JP"))
	require.Equal(t, "Mar 9, 2024", FmtDate(ts, "en"))
}
