package particles

// System is a render-phase step run by the Driver once per frame, after the
// lifecycle phase has completed. Systems run in registration order and may
// keep state between frames.
type System interface {
	Execute(frame *UpdateFrame) error
}

// UpdateFrame is what a System sees of the current frame.
type UpdateFrame struct {
	Sim      *Simulation
	Ticked   bool          // false while paused: the store is unchanged since the last frame
	Advance  AdvanceReport // the lifecycle report of this frame, zero if not ticked
	Commands *Commands
}

func newUpdateFrame(sim *Simulation, ticked bool, commands *Commands) *UpdateFrame {
	frame := &UpdateFrame{
		Sim:      sim,
		Ticked:   ticked,
		Commands: commands,
	}
	if ticked {
		frame.Advance = sim.LastAdvance()
	}
	return frame
}
