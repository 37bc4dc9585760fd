package profiler

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/onsi/gomega"
)

func TestTickWaitsForInterval(t *testing.T) {
	g := NewWithT(t)
	p := NewProfiler(WithInterval(time.Hour), WithQuiet(true))
	for range 10 {
		g.Expect(p.Tick()).To(BeFalse())
	}
}

func TestTickPublishesGauges(t *testing.T) {
	g := NewWithT(t)
	reg := prometheus.NewRegistry()
	p := NewProfiler(WithInterval(0), WithQuiet(true), WithRegisterer(reg))

	g.Expect(p.Tick()).To(BeTrue())
	g.Expect(p.Tick()).To(BeTrue())

	g.Expect(testutil.ToFloat64(p.frames)).To(BeNumerically("==", 2))
	g.Expect(testutil.ToFloat64(p.fps)).To(BeNumerically(">", 0))
	g.Expect(testutil.ToFloat64(p.heapBytes)).To(BeNumerically(">", 0))

	count, err := testutil.GatherAndCount(reg)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(count).To(Equal(5))
}
