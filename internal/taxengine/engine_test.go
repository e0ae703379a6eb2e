package taxengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxvault/taxvault-api/internal/taxengine"
)

func TestEngine_Calculate(t *testing.T) {
	engine := taxengine.NewEngine()

	tests := []struct {
		name       string
		income     int64
		deductions int64
		expected   int64
	}{
		{
			name:       "zero income",
			income:     0,
			deductions: 0,
			expected:   0,
		},
		{
			name:       "deductions exceed income floors taxable at zero",
			income:     10000,
			deductions: 20000,
			expected:   0,
		},
		{
			name:       "first bracket boundary",
			income:     50000,
			deductions: 0,
			expected:   5000,
		},
		{
			name:       "second bracket boundary",
			income:     100000,
			deductions: 0,
			expected:   15000,
		},
		{
			name:       "low income scenario",
			income:     30000,
			deductions: 5000,
			expected:   2500, // taxable 25000, all in first bracket
		},
		{
			name:       "medium income scenario",
			income:     75000,
			deductions: 12000,
			expected:   7600, // 5000 + 13000*0.20
		},
		{
			name:       "high income scenario",
			income:     150000,
			deductions: 25000,
			expected:   22500, // 5000 + 10000 + 25000*0.30
		},
		{
			name:       "one dollar into second bracket",
			income:     50001,
			deductions: 0,
			expected:   5000, // 5000 + 0.20 rounds half-up to 5000.2 -> 5000
		},
		{
			name:       "half dollar rounds up",
			income:     5,
			deductions: 0,
			expected:   1, // 0.50 rounds half-up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.Calculate(tt.income, tt.deductions))
		})
	}
}

func TestEngine_MarginalRate(t *testing.T) {
	engine := taxengine.NewEngine()

	tests := []struct {
		name       string
		income     int64
		deductions int64
		expected   int64
	}{
		{name: "zero taxable", income: 0, deductions: 0, expected: 10},
		{name: "first bracket", income: 30000, deductions: 5000, expected: 10},
		{name: "exactly first ceiling", income: 50000, deductions: 0, expected: 10},
		{name: "second bracket", income: 75000, deductions: 12000, expected: 20},
		{name: "exactly second ceiling", income: 100000, deductions: 0, expected: 20},
		{name: "third bracket", income: 150000, deductions: 25000, expected: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.MarginalRate(tt.income, tt.deductions))
		})
	}
}

func TestEngine_Breakdown(t *testing.T) {
	engine := taxengine.NewEngine()

	t.Run("touches all three brackets", func(t *testing.T) {
		lines := engine.Breakdown(150000, 25000) // taxable 125000
		require.Len(t, lines, 3)

		assert.Equal(t, int64(50000), lines[0].TaxableAmount)
		assert.Equal(t, int64(5000), lines[0].TaxOwed)
		assert.Equal(t, int64(50000), lines[1].TaxableAmount)
		assert.Equal(t, int64(10000), lines[1].TaxOwed)
		assert.Equal(t, int64(25000), lines[2].TaxableAmount)
		assert.Equal(t, int64(7500), lines[2].TaxOwed)

		var total int64
		for _, line := range lines {
			total += line.TaxOwed
		}
		assert.Equal(t, engine.Calculate(150000, 25000), total)
	})

	t.Run("first bracket only", func(t *testing.T) {
		lines := engine.Breakdown(30000, 5000)
		require.Len(t, lines, 1)
		assert.Equal(t, int64(25000), lines[0].TaxableAmount)
		assert.Equal(t, int64(2500), lines[0].TaxOwed)
		assert.Equal(t, int64(10), lines[0].RatePercent)
	})

	t.Run("zero taxable still reports the first bracket", func(t *testing.T) {
		lines := engine.Breakdown(0, 0)
		require.Len(t, lines, 1)
		assert.Equal(t, int64(0), lines[0].TaxableAmount)
		assert.Equal(t, int64(0), lines[0].TaxOwed)
	})
}

func TestEngine_Properties(t *testing.T) {
	engine := taxengine.NewEngine()

	t.Run("tax never exceeds taxable income and never goes negative", func(t *testing.T) {
		for income := int64(0); income <= 250_000; income += 7_919 {
			for deductions := int64(0); deductions <= income; deductions += 13_337 {
				tax := engine.Calculate(income, deductions)
				taxable := engine.TaxableIncome(income, deductions)
				assert.GreaterOrEqual(t, tax, int64(0))
				assert.LessOrEqual(t, tax, taxable)
			}
		}
	})

	t.Run("non-decreasing in income for fixed deductions", func(t *testing.T) {
		const deductions = 10_000
		prev := int64(-1)
		for income := int64(0); income <= 300_000; income += 1_000 {
			tax := engine.Calculate(income, deductions)
			assert.GreaterOrEqual(t, tax, prev)
			prev = tax
		}
	})

	t.Run("non-increasing in deductions for fixed income", func(t *testing.T) {
		const income = 180_000
		prev := engine.Calculate(income, 0)
		for deductions := int64(0); deductions <= income; deductions += 1_000 {
			tax := engine.Calculate(income, deductions)
			assert.LessOrEqual(t, tax, prev)
			prev = tax
		}
	})
}

func TestScenarioByName(t *testing.T) {
	tests := []struct {
		name               string
		scenario           string
		wantOK             bool
		expectedIncome     int64
		expectedDeductions int64
	}{
		{name: "low preset", scenario: "low", wantOK: true, expectedIncome: 30000, expectedDeductions: 5000},
		{name: "medium preset", scenario: "medium", wantOK: true, expectedIncome: 75000, expectedDeductions: 12000},
		{name: "high preset", scenario: "high", wantOK: true, expectedIncome: 150000, expectedDeductions: 25000},
		{name: "custom has no preset", scenario: "custom", wantOK: false},
		{name: "unknown name", scenario: "extreme", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := taxengine.ScenarioByName(tt.scenario)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.expectedIncome, s.Income)
				assert.Equal(t, tt.expectedDeductions, s.Deductions)
			}
		})
	}
}
