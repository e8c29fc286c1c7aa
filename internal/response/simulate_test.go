package response_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/response"
)

// recurrence re-derives the output sequence directly from the difference
// equations, independent of the System/Integrator plumbing.
func recurrence(kp, xi, tEnd, h float64) (y, dy []float64) {
	n := int(tEnd/h) + 1
	y = make([]float64, n)
	dy = make([]float64, n)
	x := 1.0
	for i := 0; i < n-1; i++ {
		y[i+1] = y[i] + h*dy[i]
		dy[i+1] = dy[i] + h*(-kp*y[i]-2*xi*dy[i]+kp*x)
	}
	return y, dy
}

var _ = Describe("Simulate", func() {
	nominal := response.Params{Kp: 1.0, Xi: 0.7, H: 0.02, TEnd: 10}

	DescribeTable("sample count",
		func(h, tEnd float64) {
			tr, err := response.Simulate(response.Params{Kp: 1.3, Xi: 0.7, H: h, TEnd: tEnd})
			Expect(err).NotTo(HaveOccurred())

			n := int(math.Floor(tEnd/h)) + 1
			Expect(tr.Len()).To(Equal(n))
			Expect(tr.Y).To(HaveLen(n))
			Expect(tr.DY).To(HaveLen(n))
			Expect(tr.E).To(HaveLen(n))
			Expect(tr.F).To(HaveLen(n))
		},
		Entry("nominal", 0.02, 10.0),
		Entry("coarse step", 0.5, 3.0),
		Entry("non-integral horizon", 0.3, 1.0),
		Entry("zero horizon", 0.02, 0.0),
		Entry("step larger than horizon", 5.0, 1.0),
	)

	It("produces 501 samples for the nominal run", func() {
		tr, err := response.Simulate(nominal)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(501))
	})

	It("starts from rest", func() {
		tr, err := response.Simulate(response.Params{Kp: 7, Xi: -0.3, H: 0.01, TEnd: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Y[0]).To(BeNumerically("==", 0))
		Expect(tr.DY[0]).To(BeNumerically("==", 0))
	})

	It("spans [0, t_end] with a non-decreasing time grid", func() {
		tr, err := response.Simulate(response.Params{Kp: 1, Xi: 0.7, H: 0.3, TEnd: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(4))
		Expect(tr.T[0]).To(BeNumerically("==", 0))
		Expect(tr.T[tr.Len()-1]).To(BeNumerically("==", 1))
		for i := 1; i < tr.Len(); i++ {
			Expect(tr.T[i]).To(BeNumerically(">=", tr.T[i-1]))
		}
		Expect(tr.T[1]).To(BeNumerically("~", 1.0/3, 1e-12))
	})

	It("returns a single zero sample for a zero horizon", func() {
		tr, err := response.Simulate(response.Params{Kp: 1, Xi: 0.7, H: 0.02, TEnd: 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.T).To(Equal([]float64{0}))
		Expect(tr.F[0]).To(BeNumerically("==", 0))
		Expect(tr.E[0]).To(BeNumerically("==", 1))
	})

	It("is deterministic", func() {
		a, err := response.Simulate(nominal)
		Expect(err).NotTo(HaveOccurred())
		b, err := response.Simulate(nominal)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("matches the difference equations", func() {
		p := response.Params{Kp: response.EffectiveGain(1.0, 30), Xi: 0.7, H: 0.02, TEnd: 10}
		tr, err := response.Simulate(p)
		Expect(err).NotTo(HaveOccurred())

		y, dy := recurrence(p.Kp, p.Xi, p.TEnd, p.H)
		Expect(tr.Len()).To(Equal(len(y)))
		for i := range y {
			Expect(tr.Y[i]).To(BeNumerically("~", y[i], 1e-12))
			Expect(tr.DY[i]).To(BeNumerically("~", dy[i], 1e-12))
		}
	})

	It("closes the feedback and error taps on every index", func() {
		p := response.Params{Kp: 2.5, Xi: 0.4, H: 0.05, TEnd: 3}
		tr, err := response.Simulate(p)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < tr.Len(); i++ {
			f := tr.Y[i] + 2*p.Xi*tr.DY[i]
			Expect(tr.F[i]).To(BeNumerically("~", f, 1e-12))
			Expect(tr.E[i]).To(BeNumerically("~", 1-f, 1e-12))
		}
		last := tr.Len() - 1
		Expect(tr.DY[last]).NotTo(BeNumerically("==", 0))
	})

	It("stays at rest with zero gain", func() {
		tr, err := response.Simulate(response.Params{Kp: 0, Xi: 0, H: 0.02, TEnd: 10})
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < tr.Len(); i++ {
			Expect(tr.Y[i]).To(BeNumerically("==", 0))
			Expect(tr.DY[i]).To(BeNumerically("==", 0))
			Expect(tr.E[i]).To(BeNumerically("==", 1))
		}
	})

	It("rises monotonically toward the reference in the nominal scenario", func() {
		tr, err := response.Simulate(nominal)
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i < tr.Len() && tr.T[i] <= 4.0; i++ {
			Expect(tr.Y[i]).To(BeNumerically(">=", tr.Y[i-1]))
		}
		Expect(tr.Y[250]).To(BeNumerically("~", 1.0, 0.1))
		Expect(tr.Y[tr.Len()-1]).To(BeNumerically("~", 1.0, 0.01))
		Expect(tr.Y[tr.Len()-1]).NotTo(BeNumerically("==", 1.0))
	})

	It("diverges for a very large gain", func() {
		tr, err := response.Simulate(response.Params{Kp: 10000, Xi: 0.7, H: 0.02, TEnd: 10})
		Expect(err).NotTo(HaveOccurred())

		early, late := 0.0, 0.0
		for i := 0; i < 50; i++ {
			early = math.Max(early, math.Abs(tr.Y[i]))
		}
		for i := tr.Len() - 50; i < tr.Len(); i++ {
			late = math.Max(late, math.Abs(tr.Y[i]))
		}
		Expect(late).To(BeNumerically(">", 1e10*early))

		signChanges := 0
		for i := 1; i < tr.Len(); i++ {
			if tr.Y[i]*tr.Y[i-1] < 0 {
				signChanges++
			}
		}
		Expect(signChanges).To(BeNumerically(">", 10))
	})

	DescribeTable("rejects out-of-bounds parameters",
		func(p response.Params) {
			tr, err := response.Simulate(p)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			Expect(tr).To(BeNil())
		},
		Entry("zero step", response.Params{Kp: 1, Xi: 0.7, H: 0, TEnd: 10}),
		Entry("negative step", response.Params{Kp: 1, Xi: 0.7, H: -0.02, TEnd: 10}),
		Entry("negative horizon", response.Params{Kp: 1, Xi: 0.7, H: 0.02, TEnd: -1}),
		Entry("nan gain", response.Params{Kp: math.NaN(), Xi: 0.7, H: 0.02, TEnd: 10}),
		Entry("infinite damping", response.Params{Kp: 1, Xi: math.Inf(1), H: 0.02, TEnd: 10}),
		Entry("too many samples", response.Params{Kp: 1, Xi: 0.7, H: 1e-9, TEnd: 10}),
	)
})

var _ = Describe("EffectiveGain", func() {
	It("applies the percentage increase", func() {
		Expect(response.EffectiveGain(1.0, 30)).To(BeNumerically("~", 1.3, 1e-12))
		Expect(response.EffectiveGain(2.0, -50)).To(BeNumerically("~", 1.0, 1e-12))
		Expect(response.EffectiveGain(2.0, 0)).To(BeNumerically("==", 2.0))
	})

	It("feeds SimulateEffective", func() {
		a, err := response.SimulateEffective(1.0, 30, 0.7, 0.02, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.Params.Kp).To(BeNumerically("~", 1.3, 1e-12))
	})
})

var _ = Describe("Trace.Series", func() {
	It("returns each signal", func() {
		tr, err := response.Simulate(response.Params{Kp: 1, Xi: 0.7, H: 0.1, TEnd: 1})
		Expect(err).NotTo(HaveOccurred())

		ref := tr.Series(response.SignalReference)
		Expect(ref).To(HaveLen(tr.Len()))
		Expect(ref).To(HaveEach(1.0))
		Expect(tr.Series(response.SignalOutput)).To(Equal(tr.Y))
		Expect(tr.Series(response.SignalRate)).To(Equal(tr.DY))
		Expect(tr.Series(response.SignalError)).To(Equal(tr.E))
		Expect(tr.Series(response.SignalFeedback)).To(Equal(tr.F))
		Expect(response.SignalFeedback.String()).To(Equal("f"))
	})
})
