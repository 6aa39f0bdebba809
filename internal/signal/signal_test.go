package signal_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulsesim/internal/signal"
)

var _ = Describe("Compose", func() {
	flat := func() signal.Signal {
		return signal.Signal{X: []float64{0, 1, 2, 3}, Y: []float64{1, 1, 1, 1}}
	}

	It("doubles a signal overlapped with itself at zero offset", func() {
		s := signal.Signal{X: []float64{0, 1, 2, 3, 4}, Y: []float64{0.5, 3, -1, 7, 0}}
		out, err := signal.Compose(s, s, 0, 1, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.X).To(Equal(s.X))
		Expect(out.Y).To(Equal([]float64{1, 6, -2, 14, 0}))
	})

	It("shifts and scales the second signal", func() {
		out, err := signal.Compose(flat(), flat(), 1, 1, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Y).To(Equal([]float64{1, 3, 3, 3}))
	})

	It("scales the first signal by amp1", func() {
		out, err := signal.Compose(flat(), flat(), 3, 4, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Y).To(Equal([]float64{4, 4, 4, 4.5}))
	})

	It("leaves both inputs untouched", func() {
		a, b := flat(), flat()
		_, err := signal.Compose(a, b, 1, 3, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Y).To(Equal([]float64{1, 1, 1, 1}))
		Expect(b.Y).To(Equal([]float64{1, 1, 1, 1}))
	})

	It("measures the offset from the first grid origin", func() {
		a := signal.Signal{X: []float64{10, 11, 12}, Y: []float64{1, 2, 3}}
		b := signal.Signal{X: []float64{10, 11, 12}, Y: []float64{1, 1, 1}}
		out, err := signal.Compose(a, b, 2, 1, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Y).To(Equal([]float64{1, 2, 4}))
	})

	It("reports offsets that miss the grid", func() {
		_, err := signal.Compose(flat(), flat(), 0.5, 1, 1)
		Expect(err).To(MatchError(signal.ErrGridMisalignment))

		var gridErr *signal.GridError
		Expect(errors.As(err, &gridErr)).To(BeTrue())
		Expect(gridErr.Offset).To(Equal(0.5))

		_, err = signal.Compose(flat(), flat(), 4, 1, 1)
		Expect(err).To(MatchError(signal.ErrGridMisalignment))
	})

	It("accepts near-grid offsets only with a tolerance", func() {
		s := signal.Signal{X: []float64{0, 0.1, 0.2, 0.30000000000000004}, Y: []float64{1, 1, 1, 1}}
		_, err := signal.Compose(s, s, 0.3, 1, 1)
		Expect(err).To(MatchError(signal.ErrGridMisalignment))

		out, err := signal.ComposeTolerance(s, s, 0.3, 1, 1, 1e-9)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Y).To(Equal([]float64{1, 1, 1, 2}))
	})

	It("rejects malformed signals", func() {
		_, err := signal.Compose(signal.Signal{}, flat(), 0, 1, 1)
		Expect(err).To(MatchError(signal.ErrMalformedSignal))

		_, err = signal.Compose(flat(), signal.Signal{X: []float64{0, 1}, Y: []float64{1}}, 0, 1, 1)
		Expect(err).To(MatchError(signal.ErrMalformedSignal))
	})
})

var _ = Describe("Integrate", func() {
	ramp := signal.Signal{X: []float64{0, 1, 2, 3}, Y: []float64{10, 20, 30, 40}}

	It("sums the grid points inside the closed interval", func() {
		Expect(signal.Integrate(ramp, 1, 2)).To(Equal(50.0))
		Expect(signal.Integrate(ramp, 0.5, 2.5)).To(Equal(50.0))
		Expect(signal.Integrate(ramp, 5, 6)).To(Equal(0.0))
	})

	It("recovers the total over the full grid", func() {
		Expect(signal.Integrate(ramp, 0, 3)).To(Equal(ramp.Sum()))
	})

	It("integrates relative to a center", func() {
		Expect(signal.IntegrateRelative(ramp, 1, 0, 2)).To(Equal(50.0))
		Expect(signal.IntegrateRelative(ramp, 0, 1, 2)).To(Equal(70.0))
	})

	It("uses the reference center by default", func() {
		w := signal.NewWindow(2, 3)
		Expect(w.Center).To(Equal(signal.DefaultCenter))
		from, to := w.Bounds()
		Expect(from).To(Equal(7.0))
		Expect(to).To(Equal(12.0))

		x := make([]float64, 20)
		y := make([]float64, 20)
		for i := range x {
			x[i] = float64(i)
			y[i] = 1
		}
		Expect(w.Integrate(signal.Signal{X: x, Y: y})).To(Equal(6.0))
	})
})

var _ = Describe("Scale", func() {
	It("returns a scaled copy", func() {
		s := signal.Signal{X: []float64{0, 1}, Y: []float64{2, 4}}
		scaled := s.Scale(0.5)
		Expect(scaled.Y).To(Equal([]float64{1, 2}))
		Expect(s.Y).To(Equal([]float64{2, 4}))
	})
})

var _ = Describe("ComposeInto", func() {
	s := signal.Signal{X: []float64{0, 1, 2, 3}, Y: []float64{1, 2, 3, 4}}

	It("reuses the destination buffer", func() {
		dst := []float64{99, 99, 99, 99}
		out, err := signal.ComposeInto(dst, s, s, 2, 1, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Y).To(Equal([]float64{1, 2, 4, 6}))
		Expect(dst).To(Equal([]float64{1, 2, 4, 6}))
	})

	It("rejects a destination of the wrong length", func() {
		_, err := signal.ComposeInto(make([]float64, 3), s, s, 0, 1, 1, 0)
		Expect(err).To(MatchError(signal.ErrMalformedSignal))
	})
})

var _ = Describe("Validate", func() {
	It("accepts a finite signal", func() {
		Expect(signal.Signal{X: []float64{0, 1}, Y: []float64{-1, 2}}.Validate()).To(Succeed())
	})

	DescribeTable("rejects non-finite samples",
		func(x, y []float64) {
			Expect(signal.Signal{X: x, Y: y}.Validate()).To(MatchError(signal.ErrMalformedSignal))
		},
		Entry("infinite value", []float64{0, 1, 2}, []float64{1, math.Inf(1), 0}),
		Entry("nan value", []float64{0, 1, 2}, []float64{1, 0, math.NaN()}),
		Entry("infinite grid", []float64{0, math.Inf(-1)}, []float64{1, 1}),
	)

	It("rejects mismatched and empty signals", func() {
		Expect(signal.Signal{X: []float64{0, 1}, Y: []float64{1}}.Validate()).To(MatchError(signal.ErrMalformedSignal))
		Expect(signal.Signal{}.Validate()).To(MatchError(signal.ErrMalformedSignal))
	})
})
