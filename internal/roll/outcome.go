package roll

import "fmt"

// Outcome is one double-overlap trial: the random inputs and the integral
// they produced.
type Outcome struct {
	Offset   int     `json:"offset"`
	Amp1     float64 `json:"amp1"`
	Amp2     float64 `json:"amp2"`
	Integral float64 `json:"integral"`
}

// Row flattens the outcome as offset, amp1, amp2, integral.
func (o Outcome) Row() [4]float64 {
	return [4]float64{float64(o.Offset), o.Amp1, o.Amp2, o.Integral}
}

// Rows converts a batch into a table, one row per outcome.
func Rows(outcomes []Outcome) [][]float64 {
	rows := make([][]float64, len(outcomes))
	for i, o := range outcomes {
		r := o.Row()
		rows[i] = r[:]
	}
	return rows
}

// Integrals extracts the integral column.
func Integrals(outcomes []Outcome) []float64 {
	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Integral
	}
	return out
}

// Columns lists the names accepted by Column, in Row order.
var Columns = []string{"offset", "amp1", "amp2", "integral"}

// Column extracts one named field from every outcome.
func Column(outcomes []Outcome, name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("unknown outcome column: %s", name)
	}

	out := make([]float64, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Row()[idx]
	}
	return out, nil
}
