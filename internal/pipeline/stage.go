package pipeline

import "context"

// StageID enumerates the pipeline stages in the strict order §2 requires.
type StageID int

const (
	StageMesh StageID = iota
	StageElevation
	StageDetail
	StageFeatures
	StageHydrology
	StageClimate
	StageBiomes
	StageCleanup
	numStages
)

func (s StageID) String() string {
	names := [...]string{"Mesh", "Elevation", "Detail", "Features", "Hydrology", "Climate", "Biomes", "Cleanup"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unknown"
	}
	return names[s]
}

// Mask is a bit-set of enabled stages (§6 stages_enabled).
type Mask uint8

func (m Mask) Has(s StageID) bool { return m&(1<<uint(s)) != 0 }
func (m Mask) With(s StageID) Mask { return m | 1<<uint(s) }

// AllStages is every stage after mesh construction, enabled.
var AllStages = func() Mask {
	var m Mask
	for s := StageElevation; s < numStages; s++ {
		m = m.With(s)
	}
	return m
}()

// Progress reports a stage's completion fraction in [0,1] (§4.8); it is
// read-only from the caller's perspective and must be non-decreasing.
type Progress func(stage StageID, fraction float64)

// Runner is the contract a pipeline stage satisfies, modeled on
// mad-ca/internal/core.Sim's small-interface-plus-registry shape: a name,
// and a Run method the driver calls in sequence.
type Runner interface {
	ID() StageID
	Run(ctx context.Context, ms *MapSystem, report func(float64)) error
}

var registry = map[StageID]Runner{}

// Register adds a stage implementation under its StageID. Concrete stage
// packages call this from an init() func; cmd/worldgen imports them
// so registration happens before the driver runs, mirroring how mad-ca's
// simulation packages self-register with internal/core.Register.
func Register(r Runner) {
	registry[r.ID()] = r
}

// Lookup returns the registered Runner for a stage, if any.
func Lookup(id StageID) (Runner, bool) {
	r, ok := registry[id]
	return r, ok
}

// Driver runs the registered stages over a MapSystem in order, honoring
// §4.8 pre-conditions, §6 stages_enabled, and §5 cooperative cancellation.
type Driver struct {
	Enabled  Mask
	Progress Progress
}

// Run advances ms through every enabled, registered stage. On the first
// error it stops and returns that error unchanged (§7 propagation policy);
// ms.Stage is left at the last stage that completed successfully.
func (d *Driver) Run(ctx context.Context, ms *MapSystem) error {
	for id := StageElevation; id < numStages; id++ {
		if !d.Enabled.Has(id) {
			continue
		}
		runner, ok := Lookup(id)
		if !ok {
			continue
		}
		if ms.Stage < id-1 {
			return MissingPrerequisite(id)
		}
		select {
		case <-ctx.Done():
			return Canceled(id)
		default:
		}

		err := runner.Run(ctx, ms, func(frac float64) {
			if d.Progress != nil {
				d.Progress(id, frac)
			}
		})
		if err != nil {
			return err
		}
		ms.Stage = id
		if d.Progress != nil {
			d.Progress(id, 1.0)
		}
	}
	return nil
}
