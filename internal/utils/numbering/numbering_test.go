package numbering_test

import (
	"testing"

	"github.com/ALANAK777/erp_finance_system/internal/utils/numbering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "JE-2026-00001", numbering.Format("JE", 2026, 1))
	assert.Equal(t, "INV-2026-00042", numbering.Format("INV", 2026, 42))
	assert.Equal(t, "PAY-2027-123456", numbering.Format("PAY", 2027, 123456))
}

func TestParse(t *testing.T) {
	prefix, year, seq, err := numbering.Parse("BILL-2026-00017")
	require.NoError(t, err)
	assert.Equal(t, "BILL", prefix)
	assert.Equal(t, 2026, year)
	assert.Equal(t, int64(17), seq)

	for _, bad := range []string{"", "JE-2026", "JE-xx-00001", "JE-2026-abc", "-2026-00001"} {
		_, _, _, err := numbering.Parse(bad)
		assert.Error(t, err, bad)
	}
}
