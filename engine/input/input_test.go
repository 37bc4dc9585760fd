package input

import (
	"testing"

	. "github.com/onsi/gomega"
)

type recorder struct {
	moves   int
	clicks  [][2]float64
	drags   map[Button][2]float64
	scrolls []float64
	sizes   [][2]int
}

func newRecorder() *recorder {
	return &recorder{drags: make(map[Button][2]float64)}
}

func (r *recorder) PointerMove(x, y float64) { r.moves++ }
func (r *recorder) Click(x, y float64)       { r.clicks = append(r.clicks, [2]float64{x, y}) }
func (r *recorder) Drag(b Button, dx, dy float64) {
	d := r.drags[b]
	r.drags[b] = [2]float64{d[0] + dx, d[1] + dy}
}
func (r *recorder) Scroll(delta float64)     { r.scrolls = append(r.scrolls, delta) }
func (r *recorder) Resize(width, height int) { r.sizes = append(r.sizes, [2]int{width, height}) }

func TestClickVersusDrag(t *testing.T) {
	tests := []struct {
		name   string
		button Button
		path   [][2]float64
		clicks int
	}{
		{"still press", ButtonLeft, [][2]float64{{100, 100}}, 1},
		{"small jitter", ButtonLeft, [][2]float64{{100, 100}, {101, 101}, {102, 100}}, 1},
		{"drag away", ButtonLeft, [][2]float64{{100, 100}, {120, 100}, {140, 100}}, 0},
		{"drag and return", ButtonLeft, [][2]float64{{100, 100}, {130, 100}, {100, 100}}, 0},
		{"right button", ButtonRight, [][2]float64{{100, 100}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher()
			r := newRecorder()
			d.Subscribe(r)

			start, end := tt.path[0], tt.path[len(tt.path)-1]
			d.Move(start[0], start[1])
			d.ButtonDown(tt.button, start[0], start[1])
			for _, p := range tt.path[1:] {
				d.Move(p[0], p[1])
			}
			d.ButtonUp(tt.button, end[0], end[1])

			if len(r.clicks) != tt.clicks {
				t.Fatalf("expected %d clicks, got %d", tt.clicks, len(r.clicks))
			}
		})
	}
}

func TestDragReportsDeltas(t *testing.T) {
	g := NewWithT(t)
	d := NewDispatcher()
	r := newRecorder()
	d.Subscribe(r)

	d.Move(10, 10)
	d.ButtonDown(ButtonLeft, 10, 10)
	d.Move(15, 12)
	d.Move(25, 20)
	d.ButtonUp(ButtonLeft, 25, 20)
	d.Move(50, 50)

	g.Expect(r.drags[ButtonLeft]).To(Equal([2]float64{15, 10}))
	g.Expect(r.moves).To(Equal(4))
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	g := NewWithT(t)
	d := NewDispatcher()
	a, b := newRecorder(), newRecorder()

	unsubA := d.Subscribe(a)
	d.Subscribe(b)
	g.Expect(d.Subscribers()).To(Equal(2))

	unsubA()
	unsubA()
	g.Expect(d.Subscribers()).To(Equal(1))

	d.Resize(800, 600)
	d.Scroll(1)
	g.Expect(a.sizes).To(BeEmpty())
	g.Expect(b.sizes).To(Equal([][2]int{{800, 600}}))
	g.Expect(b.scrolls).To(Equal([]float64{1}))
}

func TestHandlerMayUnsubscribeDuringDispatch(t *testing.T) {
	g := NewWithT(t)
	d := NewDispatcher()
	var unsub func()
	r := newRecorder()
	unsub = d.Subscribe(&selfRemoving{recorder: r, unsub: func() { unsub() }})

	d.Resize(1, 1)
	d.Resize(2, 2)
	g.Expect(r.sizes).To(HaveLen(1))
	g.Expect(d.Subscribers()).To(BeZero())
}

type selfRemoving struct {
	*recorder
	unsub func()
}

func (s *selfRemoving) Resize(width, height int) {
	s.recorder.Resize(width, height)
	s.unsub()
}
