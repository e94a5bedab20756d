package sim_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
)

const frame = 1.0 / 60

var _ = Describe("World", func() {
	var w *sim.World

	BeforeEach(func() {
		w = sim.NewWorld(physics.DefaultEnv(), 1)
	})

	Describe("Step", func() {
		It("advances the clock and records history", func() {
			w.Add(physics.NewBall(100, 50, 20))

			Expect(w.Step(frame)).To(BeTrue())
			Expect(w.Step(frame)).To(BeTrue())

			Expect(w.Steps()).To(Equal(2))
			Expect(w.Time()).To(BeNumerically("~", 2*frame, 1e-12))
			Expect(w.History().Len()).To(Equal(2))
		})

		It("clamps long frames to the max step", func() {
			w.Add(physics.NewBall(100, 50, 20))

			w.Step(1.0)

			Expect(w.Time()).To(BeNumerically("~", sim.DefaultMaxStep, 1e-12))
			Expect(w.Bodies()[0].Vel.Y).To(BeNumerically("~", 9.8*sim.DefaultMaxStep, 1e-9))
		})

		It("ignores non-positive frame times", func() {
			Expect(w.Step(0)).To(BeFalse())
			Expect(w.Step(-1)).To(BeFalse())
			Expect(w.Steps()).To(BeZero())
		})

		It("runs motion for every body before any collision", func() {
			lower := physics.NewBall(100, 580, 20)
			lower.Rest = physics.RestOnGround()
			upper := physics.NewBall(100, 480, 20)
			w.Add(lower, upper)

			for i := 0; i < 1500; i++ {
				w.Step(frame)
			}

			snap := w.Snapshot()
			Expect(snap.Bodies[0].Resting).To(Equal("ground"))
			Expect(snap.Bodies[1].Resting).To(Equal("body:0"))
			Expect(snap.Bodies[1].Y).To(BeNumerically("~", 540, 0.5))
		})
	})

	Describe("Pause", func() {
		It("freezes the world until resumed", func() {
			w.Add(physics.NewBall(100, 50, 20))
			w.Pause()

			Expect(w.Step(frame)).To(BeFalse())
			Expect(w.Bodies()[0].Pos.Y).To(Equal(50.0))

			w.Toggle()
			Expect(w.Paused()).To(BeFalse())
			Expect(w.Step(frame)).To(BeTrue())
			Expect(w.Bodies()[0].Pos.Y).To(BeNumerically(">", 50))
		})
	})

	Describe("Reset", func() {
		It("restores the spawn set and rewinds the clock", func() {
			b := physics.NewBall(100, 50, 20)
			b.Vel.X = 3
			w.Env().Lesson = physics.WorkEnergy
			w.Add(b)

			for i := 0; i < 120; i++ {
				w.Step(frame)
			}
			Expect(w.Bodies()[0].Pos.Y).NotTo(Equal(50.0))

			w.Reset()

			Expect(w.Len()).To(Equal(1))
			Expect(w.Time()).To(BeZero())
			Expect(w.History().Len()).To(BeZero())
			restored := w.Bodies()[0]
			Expect(restored).NotTo(BeIdenticalTo(b))
			Expect(restored.Pos.Y).To(Equal(50.0))
			Expect(restored.Vel.X).To(Equal(3.0))
		})

		It("replays deterministically", func() {
			a := physics.NewBall(200, 300, 20)
			b := physics.NewBall(200, 300, 20)
			w.Add(a, b)

			for i := 0; i < 60; i++ {
				w.Step(frame)
			}
			first := w.Snapshot()

			w.Reset()
			for i := 0; i < 60; i++ {
				w.Step(frame)
			}

			Expect(w.Snapshot().Bodies).To(Equal(first.Bodies))
		})
	})

	Describe("SetLesson", func() {
		It("switches the force model and clears the world", func() {
			w.Add(physics.NewBall(100, 50, 20))

			Expect(w.SetLesson(physics.Friction)).To(Succeed())

			Expect(w.Lesson()).To(Equal(physics.Friction))
			Expect(w.Len()).To(BeZero())
			w.Reset()
			Expect(w.Len()).To(BeZero())
		})

		It("rejects unknown lessons", func() {
			err := w.SetLesson(physics.Lesson(99))
			Expect(errors.Is(err, sim.ErrInvalidConfig)).To(BeTrue())
		})
	})

	Describe("Seek", func() {
		It("scrubs through bounded history", func() {
			w.SetHistoryLimit(10)
			w.Add(physics.NewBall(100, 50, 20))

			for i := 0; i < 25; i++ {
				w.Step(frame)
			}

			Expect(w.History().Len()).To(Equal(10))
			oldest, ok := w.Seek(0)
			Expect(ok).To(BeTrue())
			Expect(oldest.Step).To(Equal(16))
			latest, ok := w.Seek(9)
			Expect(ok).To(BeTrue())
			Expect(latest.Step).To(Equal(25))
			_, ok = w.Seek(10)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Push", func() {
		It("applies the body's force and wakes it", func() {
			w.Env().Lesson = physics.Friction
			b := physics.NewBall(100, 580, 20)
			b.Rest = physics.RestOnGround()
			w.Add(b)

			Expect(w.Push(0, 0.5)).To(Succeed())
			Expect(b.Vel.X).To(BeNumerically("~", 5, 1e-9))
			Expect(b.Rest.IsResting()).To(BeFalse())
		})

		It("rejects bad indices", func() {
			Expect(w.Push(3, 0.5)).NotTo(Succeed())
		})
	})
})
