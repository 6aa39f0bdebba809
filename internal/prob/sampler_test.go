package prob_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pulsesim/internal/prob"
)

var _ = Describe("Sampler", func() {
	var normalized prob.Density

	BeforeEach(func() {
		var err error
		normalized, err = prob.Normalize(prob.Density{E: []float64{0, 1, 2}, P: []float64{0, 2, 0}})
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps every draw inside the support", func() {
		d := prob.Density{
			E: []float64{1.5, 2, 3, 7, 9.5},
			P: []float64{0.1, 4, 2, 0, 1},
		}
		n, err := prob.Normalize(d)
		Expect(err).NotTo(HaveOccurred())
		s, err := prob.NewSampler(n)
		Expect(err).NotTo(HaveOccurred())

		rng := prob.NewRNG(7, 0)
		for i := 0; i < 10000; i++ {
			v := s.Sample(rng)
			Expect(v).To(BeNumerically(">=", 1.5))
			Expect(v).To(BeNumerically("<=", 9.5))
		}
	})

	It("centers a triangular density on its peak", func() {
		s, err := prob.NewSampler(normalized)
		Expect(err).NotTo(HaveOccurred())

		rng := prob.NewRNG(2024, 1)
		const draws = 100000
		sum := 0.0
		for i := 0; i < draws; i++ {
			sum += s.Sample(rng)
		}
		Expect(sum / draws).To(BeNumerically("~", 1.0, 0.02))
	})

	It("interpolates inside a bracket", func() {
		s, err := prob.NewSampler(prob.Density{E: []float64{0, 10}, P: []float64{0.1, 0.1}})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.SampleAt(0.25)).To(BeNumerically("~", 2.5, 1e-12))
		Expect(s.SampleAt(0)).To(BeNumerically("~", 0, 1e-12))
		Expect(s.SampleAt(1)).To(BeNumerically("~", 10, 1e-12))
	})

	It("maps the extreme rolls onto the support bounds", func() {
		s, err := prob.NewSampler(normalized)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.SampleAt(0)).To(Equal(0.0))
		Expect(s.SampleAt(0.5)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(s.SampleAt(1)).To(BeNumerically("~", 2.0, 1e-12))
	})

	It("stays on the last bracket when the roll exceeds the total mass", func() {
		// total mass is 0.5, so every roll above it would walk past the end
		s, err := prob.NewSampler(prob.Density{E: []float64{0, 1, 2}, P: []float64{0, 0.5, 0}})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Total()).To(BeNumerically("~", 0.5, 1e-12))
		Expect(s.SampleAt(0.9)).To(Equal(2.0))
		Expect(s.SampleAt(1.0 + 1e-9)).To(Equal(2.0))
	})

	It("does not divide by an empty bracket", func() {
		s, err := prob.NewSampler(prob.Density{E: []float64{0, 1, 2, 3}, P: []float64{0, 0, 1, 1}})
		Expect(err).NotTo(HaveOccurred())
		Expect(s.SampleAt(0)).To(Equal(0.0))
	})

	It("is reproducible for a fixed seed", func() {
		s, err := prob.NewSampler(normalized)
		Expect(err).NotTo(HaveOccurred())

		a, b := prob.NewRNG(99, 3), prob.NewRNG(99, 3)
		for i := 0; i < 100; i++ {
			Expect(s.Sample(a)).To(Equal(s.Sample(b)))
		}
	})

	It("rejects malformed densities before sampling", func() {
		_, err := prob.SampleScalar(prob.Density{E: []float64{0}, P: []float64{1}}, prob.NewRNG(1, 1))
		Expect(err).To(MatchError(prob.ErrMalformedDensity))
	})

	It("samples a one-off value", func() {
		v, err := prob.SampleScalar(normalized, prob.NewRNG(5, 5))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically(">=", 0))
		Expect(v).To(BeNumerically("<=", 2))
	})
})

var _ = Describe("Uniform", func() {
	It("draws reals from the half-open interval", func() {
		rng := prob.NewRNG(11, 0)
		for i := 0; i < 10000; i++ {
			v := prob.Uniform(rng, -3, 4)
			Expect(v).To(BeNumerically(">=", -3))
			Expect(v).To(BeNumerically("<", 4))
		}
	})

	It("draws integers from the closed interval", func() {
		rng := prob.NewRNG(12, 0)
		seen := make(map[int]bool)
		for i := 0; i < 10000; i++ {
			v := prob.UniformInt(rng, 0, 42)
			Expect(v).To(BeNumerically(">=", 0))
			Expect(v).To(BeNumerically("<=", 42))
			seen[v] = true
		}
		Expect(seen).To(HaveKey(0))
		Expect(seen).To(HaveKey(42))
		Expect(seen).To(HaveLen(43))
	})

	It("collapses a degenerate range to its lower end", func() {
		rng := prob.NewRNG(13, 0)
		Expect(prob.UniformInt(rng, 5, 5)).To(Equal(5))
	})
})
