package prob_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulsesim/internal/prob"
)

var _ = Describe("Density", func() {
	triangle := func() prob.Density {
		return prob.Density{E: []float64{0, 1, 2}, P: []float64{0, 2, 0}}
	}

	Describe("Normalize", func() {
		It("rescales a triangular density to unit mass", func() {
			n, err := prob.Normalize(triangle())
			Expect(err).NotTo(HaveOccurred())
			Expect(prob.Mass(n)).To(BeNumerically("~", 1.0, 1e-12))
			Expect(n.P).To(Equal([]float64{0, 1, 0}))
			Expect(n.E).To(Equal([]float64{0, 1, 2}))
		})

		It("does not modify its input", func() {
			d := triangle()
			_, err := prob.Normalize(d)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.P).To(Equal([]float64{0, 2, 0}))
		})

		It("normalizes irregular grids", func() {
			d := prob.Density{
				E: []float64{0.5, 0.7, 1.9, 4.0, 4.25},
				P: []float64{3, 8, 1, 0.5, 12},
			}
			n, err := prob.Normalize(d)
			Expect(err).NotTo(HaveOccurred())
			Expect(prob.Mass(n)).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("reports zero mass explicitly", func() {
			_, err := prob.Normalize(prob.Density{E: []float64{0, 1, 2}, P: []float64{0, 0, 0}})
			Expect(err).To(MatchError(prob.ErrZeroMass))
		})
	})

	DescribeTable("Validate rejects malformed densities",
		func(d prob.Density) {
			Expect(d.Validate()).To(MatchError(prob.ErrMalformedDensity))
			_, err := prob.Normalize(d)
			Expect(err).To(MatchError(prob.ErrMalformedDensity))
		},
		Entry("length mismatch", prob.Density{E: []float64{0, 1, 2}, P: []float64{1, 1}}),
		Entry("single sample", prob.Density{E: []float64{0}, P: []float64{1}}),
		Entry("empty", prob.Density{}),
		Entry("repeated position", prob.Density{E: []float64{0, 1, 1}, P: []float64{1, 1, 1}}),
		Entry("decreasing position", prob.Density{E: []float64{0, 2, 1}, P: []float64{1, 1, 1}}),
		Entry("negative value", prob.Density{E: []float64{0, 1}, P: []float64{1, -1}}),
		Entry("NaN value", prob.Density{E: []float64{0, 1}, P: []float64{math.NaN(), 1}}),
	)

	It("accepts a well-formed density", func() {
		Expect(triangle().Validate()).To(Succeed())
	})
})
