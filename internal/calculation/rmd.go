package calculation

import (
	"github.com/shopspring/decimal"
)

// DefaultRMDStartAge applies when neither a start age nor a birth year is known
const DefaultRMDStartAge = 73

// QCDMinAge is the age at which qualified charitable distributions are allowed
const QCDMinAge = 71

// uniformLifetime is the IRS Uniform Lifetime Table (2022+), age -> distribution period
var uniformLifetime = map[int]string{
	72: "27.4", 73: "26.5", 74: "25.5", 75: "24.6", 76: "23.7", 77: "22.9", 78: "22.0", 79: "21.1",
	80: "20.2", 81: "19.4", 82: "18.5", 83: "17.7", 84: "16.8", 85: "16.0", 86: "15.2", 87: "14.4",
	88: "13.7", 89: "12.9", 90: "12.2", 91: "11.5", 92: "10.8", 93: "10.1", 94: "9.5", 95: "8.9",
	96: "8.4", 97: "7.8", 98: "7.3", 99: "6.8", 100: "6.4", 101: "6.0", 102: "5.6", 103: "5.2",
	104: "4.9", 105: "4.6", 106: "4.3", 107: "4.1", 108: "3.9", 109: "3.7", 110: "3.5", 111: "3.4",
	112: "3.3", 113: "3.1", 114: "3.0", 115: "2.9", 116: "2.8", 117: "2.7", 118: "2.5", 119: "2.3",
	120: "2.0",
}

// UniformLifetimeDivisor returns the distribution period for an age
func UniformLifetimeDivisor(age int) (decimal.Decimal, bool) {
	s, ok := uniformLifetime[age]
	if !ok {
		return decimal.Zero, false
	}
	return decimal.RequireFromString(s), true
}

// RMDStartAgeForBirthYear applies the SECURE 2.0 schedule
func RMDStartAgeForBirthYear(birthYear int) int {
	switch {
	case birthYear <= 0:
		return DefaultRMDStartAge
	case birthYear <= 1950:
		return 72
	case birthYear <= 1959:
		return 73
	default:
		return 75
	}
}

// RMDCalculator computes required minimum distributions for one account owner
type RMDCalculator struct {
	StartAge int
}

func NewRMDCalculator(startAge int) *RMDCalculator {
	if startAge == 0 {
		startAge = DefaultRMDStartAge
	}
	return &RMDCalculator{StartAge: startAge}
}

// ComputeRMD divides the prior year-end balance by the age's distribution period.
// Ages before StartAge or outside the table return zero.
func (c *RMDCalculator) ComputeRMD(balance decimal.Decimal, age int) decimal.Decimal {
	if age < c.StartAge || !balance.IsPositive() {
		return decimal.Zero
	}
	divisor, ok := UniformLifetimeDivisor(age)
	if !ok {
		return decimal.Zero
	}
	return balance.Div(divisor).Round(2)
}
