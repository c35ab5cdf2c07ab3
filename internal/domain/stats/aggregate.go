package stats

import "math"

// Column reads one numeric column from a row.
type Column func(Row) float64

// Mean averages a column over the table. Empty tables yield 0.
func Mean(t Table, col Column) float64 {
	if len(t.Rows) == 0 {
		return 0
	}
	return Sum(t, col) / float64(len(t.Rows))
}

// Sum totals a column over the table.
func Sum(t Table, col Column) float64 {
	var total float64
	for _, row := range t.Rows {
		total += col(row)
	}
	return total
}

// SampleStdDev computes the sample standard deviation (n-1 denominator)
// of a column. The second return is false when fewer than two rows exist
// and no deviation is defined.
func SampleStdDev(t Table, col Column) (float64, bool) {
	n := len(t.Rows)
	if n < 2 {
		return 0, false
	}

	mean := Mean(t, col)
	var sumSquares float64
	for _, row := range t.Rows {
		delta := col(row) - mean
		sumSquares += delta * delta
	}

	return math.Sqrt(sumSquares / float64(n-1)), true
}
