package engine

import (
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestStepRunsPostedWorkBeforeFrames(t *testing.T) {
	g := NewWithT(t)
	e := NewEngine()

	var calls []string
	e.RequestFrames(func(dt float32) { calls = append(calls, "frame") })
	e.Post(func() { calls = append(calls, "post-1") })
	e.Post(func() { calls = append(calls, "post-2") })

	e.Step(0.016)
	e.Step(0.016)

	g.Expect(calls).To(Equal([]string{"post-1", "post-2", "frame", "frame"}))
}

func TestRequestFramesCancel(t *testing.T) {
	g := NewWithT(t)
	e := NewEngine()

	var got []float32
	cancel := e.RequestFrames(func(dt float32) { got = append(got, dt) })
	e.Step(0.5)
	cancel()
	cancel()
	e.Step(0.25)

	g.Expect(got).To(Equal([]float32{0.5}))
}

func TestCallbackCancelledMidFrameIsSkipped(t *testing.T) {
	g := NewWithT(t)
	e := NewEngine()

	var second func()
	ran := 0
	e.RequestFrames(func(float32) { second() })
	second = e.RequestFrames(func(float32) { ran++ })

	e.Step(0.016)
	g.Expect(ran).To(Equal(0))
}

func TestPostFromGoroutines(t *testing.T) {
	g := NewWithT(t)
	e := NewEngine()

	var wg sync.WaitGroup
	count := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Post(func() { count++ })
		}()
	}
	wg.Wait()
	e.Step(0)

	g.Expect(count).To(Equal(50))
}

func TestRunHeadlessUntilQuit(t *testing.T) {
	g := NewWithT(t)
	e := NewEngine(WithRenderFrameLimit(500))

	frames := 0
	e.RequestFrames(func(float32) {
		frames++
		if frames == 3 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	g.Eventually(done, time.Second).Should(BeClosed())
	g.Expect(frames).To(Equal(3))
	e.Quit()
}
