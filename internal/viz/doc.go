// Package viz is the terminal front end of the sandbox.
//
// [Model] steps a sim.World at 60 frames per second and draws its bodies on
// a Braille [Canvas], with the lesson readouts, an energy chart and the
// tunable controls of the current lesson beside it. [NewInteractiveApp]
// adds a lesson and preset picker in front of it.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the spawn state
//	S/B   - Spawn a ball or a sliding box
//	F     - Push the focused body with its force
//	L     - Next lesson
//	Tab   - Cycle controls, Up/Down to tune
//	[ ]   - Scrub the replay history
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
