package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile_Bakery(t *testing.T) {
	rows, err := ParseFile("../../testdata/bakery.csv", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "2024-12-09", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, "Laugenbrezen  0.90€ x 1", rows[1].Description)
	assert.Equal(t, "-0.90", rows[1].Amount.StringFixed(2))
	assert.Equal(t, "Savings", rows[1].Transfer)
	assert.Equal(t, "Mehrkornbrötchen  0.75€ x 1", rows[2].Description)

	for _, r := range rows {
		assert.True(t, r.Amount.IsNegative(), "expected negated amount for %s", r.Description)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	assert.Error(t, err)
}

func TestParse_PlainAmount(t *testing.T) {
	in := "Date; Description ;TRANSFER;amount\n2024-12-10;Salary;Income;1500.00\n2024-12-11;Rent;Housing;-700\n"
	rows, err := Parse(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1500.00", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "-700.00", rows[1].Amount.StringFixed(2))
	assert.Equal(t, "Housing", rows[1].Transfer)
}

func TestParse_ColumnOrderFromHeader(t *testing.T) {
	in := "transfer;amount;description;date\nSavings;4;Groceries;2024-12-09\n"
	rows, err := Parse(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Groceries", rows[0].Description)
	assert.Equal(t, "Savings", rows[0].Transfer)
	assert.Equal(t, 9, rows[0].Date.Day())
}

func TestParse_CustomOptions(t *testing.T) {
	in := "date,description,transfer,amount\n09.12.2024,Groceries,Savings,4\n"
	rows, err := Parse(strings.NewReader(in), Options{Delimiter: ',', DateFormat: "02.01.2006"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-12-09", rows[0].Date.Format("2006-01-02"))
}

func TestParse_QuotesInDescription(t *testing.T) {
	in := "date;description;transfer;amount\n" +
		"2024-12-09;Pizza 12\" Margherita;Savings;-9.50\n" +
		"2024-12-10;\"Bakery; Mueller\";Savings;-3.20\n"
	rows, err := Parse(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, `Pizza 12" Margherita`, rows[0].Description)
	assert.Equal(t, "-9.50", rows[0].Amount.StringFixed(2))
	assert.Equal(t, "Savings", rows[0].Transfer)
	assert.Equal(t, "Bakery; Mueller", rows[1].Description)
}

func TestParse_HeaderOnly(t *testing.T) {
	rows, err := Parse(strings.NewReader("date;description;transfer;amount\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantIs  error
		wantMsg string
	}{
		{
			name:   "empty file",
			in:     "",
			wantIs: ErrMissingColumn,
		},
		{
			name:    "no transfer column",
			in:      "date;description;amount\n",
			wantIs:  ErrMissingColumn,
			wantMsg: `"transfer"`,
		},
		{
			name:   "both amount columns",
			in:     "date;description;transfer;amount;-amount\n",
			wantIs: ErrAmountColumns,
		},
		{
			name:   "no amount column",
			in:     "date;description;transfer\n",
			wantIs: ErrAmountColumns,
		},
		{
			name:    "bad date",
			in:      "date;description;transfer;amount\n2024-12-09;ok;Savings;1\n12/09/2024;x;Savings;1\n",
			wantMsg: "row 3: parsing date",
		},
		{
			name:    "bad amount",
			in:      "date;description;transfer;amount\n2024-12-09;x;Savings;one\n",
			wantMsg: "row 2: parsing amount",
		},
		{
			name:    "empty transfer",
			in:      "date;description;transfer;amount\n2024-12-09;x; ;1\n",
			wantMsg: "row 2: transfer account is empty",
		},
		{
			name:    "wrong field count",
			in:      "date;description;transfer;amount\n2024-12-09;x;Savings\n",
			wantMsg: "row 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Parse(strings.NewReader(tt.in), DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, rows)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}
