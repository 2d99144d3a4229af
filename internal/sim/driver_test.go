package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/popsim/internal/sim"
)

func days(snaps []sim.Snapshot) []int {
	out := make([]int, len(snaps))
	for i, s := range snaps {
		out[i] = s.Day
	}
	return out
}

var _ = Describe("Driver", func() {
	var (
		d   *sim.Driver
		cfg *sim.Config
	)

	BeforeEach(func() {
		d = sim.NewDriver(sim.NewRand(1))
		cfg = sim.DefaultConfig(2)
	})

	Context("before the first start", func() {
		It("is idle", func() {
			Expect(d.Active()).To(BeFalse())
			Expect(d.Tick()).To(BeFalse())
			_, ok := d.Latest()
			Expect(ok).To(BeFalse())
			Expect(d.Total()).To(Equal(0.0))
			Expect(d.Config()).To(BeNil())
			Expect(d.Snapshots()).To(BeEmpty())
		})
	})

	Context("on start", func() {
		It("seeds the history with the day-0 snapshot", func() {
			cfg.Populations[0].Amount = 40
			cfg.Populations[1].Amount = 60
			Expect(d.Start(cfg)).To(Succeed())

			Expect(d.Active()).To(BeTrue())
			Expect(d.Day()).To(Equal(0))
			snaps := d.Snapshots()
			Expect(snaps).To(HaveLen(1))
			Expect(snaps[0].Day).To(Equal(0))
			Expect(snaps[0].Amounts).To(Equal(sim.State{40, 60}))
			Expect(d.Total()).To(Equal(100.0))
		})

		It("rejects an invalid config and stays inactive", func() {
			cfg.Step = 0
			err := d.Start(cfg)
			Expect(err).To(MatchError(sim.ErrInvalidRange))
			var cerr *sim.ConfigError
			Expect(err).To(BeAssignableToTypeOf(cerr))
			Expect(d.Active()).To(BeFalse())
			Expect(d.Tick()).To(BeFalse())
		})

		It("rejects a shape mismatch", func() {
			cfg.Coeffs = sim.Matrix{{0}}
			Expect(d.Start(cfg)).To(MatchError(sim.ErrShapeMismatch))
			Expect(d.Active()).To(BeFalse())
		})

		It("keeps the previous history when a restart fails", func() {
			Expect(d.Start(cfg)).To(Succeed())
			d.Tick()
			d.Tick()
			bad := cfg.Clone()
			bad.Duration = -1
			Expect(d.Start(bad)).NotTo(Succeed())
			Expect(d.Len()).To(Equal(3))
			Expect(d.Active()).To(BeFalse())
		})

		It("is isolated from later edits to the caller's config", func() {
			Expect(d.Start(cfg)).To(Succeed())
			cfg.Step = 50
			cfg.Populations[0].Growth = 5
			Expect(d.Tick()).To(BeTrue())
			latest, _ := d.Latest()
			Expect(latest.Day).To(Equal(1))
			Expect(d.Config().Step).To(Equal(1))
		})
	})

	Context("termination", func() {
		It("advances while day <= duration and stops on the first tick past it", func() {
			cfg.Duration = 10
			cfg.Step = 5
			Expect(d.Start(cfg)).To(Succeed())

			Expect(d.Tick()).To(BeTrue())
			Expect(d.Tick()).To(BeTrue())
			Expect(days(d.Snapshots())).To(Equal([]int{0, 5, 10}))
			Expect(d.Active()).To(BeTrue())

			// day 10 is not past the duration yet
			Expect(d.Tick()).To(BeTrue())
			Expect(days(d.Snapshots())).To(Equal([]int{0, 5, 10, 15}))
			Expect(d.Active()).To(BeTrue())

			Expect(d.Tick()).To(BeFalse())
			Expect(d.Active()).To(BeFalse())
			Expect(d.Len()).To(Equal(4))

			Expect(d.Tick()).To(BeFalse())
			Expect(d.Len()).To(Equal(4))
		})

		It("still takes one step for a zero duration", func() {
			cfg.Duration = 0
			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Tick()).To(BeTrue())
			Expect(d.Tick()).To(BeFalse())
			Expect(days(d.Snapshots())).To(Equal([]int{0, 1}))
		})
	})

	Context("during a run", func() {
		It("grows days by exactly one step per snapshot", func() {
			cfg.Step = 3
			cfg.Duration = 100
			Expect(d.Start(cfg)).To(Succeed())
			for d.Tick() {
			}
			snaps := d.Snapshots()
			for k := 1; k < len(snaps); k++ {
				Expect(snaps[k].Day).To(Equal(snaps[k-1].Day + 3))
			}
			Expect(d.Day()).To(Equal(snaps[len(snaps)-1].Day))
			Expect(d.Day()).To(BeNumerically(">", 100))
		})

		It("reports the latest total and day", func() {
			cfg.Coeffs = sim.NewMatrix(2, 0)
			Expect(d.Start(cfg)).To(Succeed())
			d.Tick()
			Expect(d.Day()).To(Equal(1))
			Expect(d.Total()).To(BeNumerically("~", 202.0, 1e-9))
		})

		It("hands out a copy of the history", func() {
			Expect(d.Start(cfg)).To(Succeed())
			snaps := d.Snapshots()
			_ = append(snaps, sim.Snapshot{Day: 99})
			Expect(d.Len()).To(Equal(1))
		})
	})

	Context("stop", func() {
		It("halts at the next tick and keeps history", func() {
			Expect(d.Start(cfg)).To(Succeed())
			d.Tick()
			d.Tick()
			d.Stop()
			Expect(d.Active()).To(BeFalse())
			Expect(d.Tick()).To(BeFalse())
			Expect(d.Len()).To(Equal(3))
		})

		It("allows a fresh start afterwards", func() {
			Expect(d.Start(cfg)).To(Succeed())
			d.Tick()
			d.Stop()
			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Len()).To(Equal(1))
			Expect(d.Day()).To(Equal(0))
		})
	})

	Context("population count changes", func() {
		It("rejects a different count mid-run", func() {
			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Resize(3)).To(MatchError(sim.ErrRunActive))
			Expect(d.Resize(2)).To(Succeed())
		})

		It("applies a new count with defaults on the next start", func() {
			cfg.Populations[0].Amount = 7
			Expect(d.Start(cfg)).To(Succeed())
			d.Stop()

			Expect(d.Resize(3)).To(Succeed())
			Expect(d.Start(cfg)).To(Succeed())
			latest, _ := d.Latest()
			Expect(latest.Amounts).To(Equal(sim.State{100, 100, 100}))
			Expect(d.Config().Coeffs.IsSquare(3)).To(BeTrue())
			Expect(d.Config().Disease.Resistance).To(HaveLen(3))
		})

		It("drops a same-count request so a later config keeps its own count", func() {
			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Resize(2)).To(Succeed())
			d.Stop()

			next := sim.DefaultConfig(5)
			next.Populations[0].Amount = 7
			Expect(d.Start(next)).To(Succeed())
			latest, _ := d.Latest()
			Expect(latest.Amounts).To(Equal(sim.State{7, 100, 100, 100, 100}))
		})

		It("cancels a pending count when the current one is requested again", func() {
			Expect(d.Start(cfg)).To(Succeed())
			d.Stop()
			Expect(d.Resize(4)).To(Succeed())
			Expect(d.Resize(2)).To(Succeed())
			Expect(d.Start(cfg)).To(Succeed())
			Expect(d.Config().N()).To(Equal(2))
		})

		It("rejects a non-positive count", func() {
			Expect(d.Resize(0)).To(MatchError(sim.ErrInvalidRange))
		})
	})

	Context("with randomness", func() {
		It("reproduces a run under a fixed seed", func() {
			cfg.Coeffs = sim.Matrix{{0, -0.0002}, {0.0001, 0}}
			cfg.Escape = sim.Escape{Enabled: true, Probability: 40}
			cfg.Disease = sim.Disease{SpawnRate: 0.05, Resistance: []float64{0.8, 0.9}}
			cfg.Duration = 200
			cfg.Step = 4

			run := func(seed uint64) []sim.Snapshot {
				dr := sim.NewDriver(sim.NewRand(seed))
				Expect(dr.Start(cfg)).To(Succeed())
				for dr.Tick() {
				}
				return dr.Snapshots()
			}

			Expect(run(42)).To(Equal(run(42)))
			Expect(run(42)).NotTo(Equal(run(43)))
		})

		It("falls back to a fixed source when none is given", func() {
			cfg.Coeffs = sim.Matrix{{0, -0.0002}, {0.0001, 0}}
			cfg.Escape = sim.Escape{Enabled: true, Probability: 50}
			cfg.Disease = sim.Disease{SpawnRate: 0.1, Resistance: []float64{0.9, 0.9}}
			cfg.Duration = 30

			run := func(dr *sim.Driver) []sim.Snapshot {
				Expect(dr.Start(cfg)).To(Succeed())
				for dr.Tick() {
				}
				return dr.Snapshots()
			}

			var snaps []sim.Snapshot
			Expect(func() { snaps = run(sim.NewDriver(nil)) }).NotTo(Panic())
			Expect(snaps).To(Equal(run(sim.NewDriver(sim.NewRand(0)))))
		})
	})
})
