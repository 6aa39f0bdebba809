package signal

// DefaultCenter is the peak channel of the reference pulse template; relative
// windows are measured from it unless a Window says otherwise.
const DefaultCenter = 9.0

// Window is an integration interval given relative to Center:
// [Center-Left, Center+Right].
type Window struct {
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
	Center float64 `json:"center" yaml:"center"`
}

// NewWindow returns a window around DefaultCenter.
func NewWindow(left, right float64) Window {
	return Window{Left: left, Right: right, Center: DefaultCenter}
}

// Bounds returns the absolute integration interval.
func (w Window) Bounds() (from, to float64) {
	return w.Center - w.Left, w.Center + w.Right
}

func (w Window) Integrate(s Signal) float64 {
	from, to := w.Bounds()
	return Integrate(s, from, to)
}

// Integrate sums the values whose grid position lies in [from, to].
func Integrate(s Signal, from, to float64) float64 {
	sum := 0.0
	for i, x := range s.X {
		if x >= from && x <= to {
			sum += s.Y[i]
		}
	}
	return sum
}

// IntegrateRelative integrates over [center-left, center+right].
func IntegrateRelative(s Signal, left, right, center float64) float64 {
	return Integrate(s, center-left, center+right)
}
