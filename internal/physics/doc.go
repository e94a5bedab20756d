// Package physics implements the sandbox's step function.
//
// A tick is split into two stages that must run in order:
//
//   - [MotionStage]: every body is advanced by [Integrate] under the force
//     model of the active [Lesson], then clamped against the floor.
//   - [CollisionStage]: overlapping circles are separated and bounced, and
//     the resting relation ([Rest]) is maintained.
//
// All motion updates complete before any collision update begins, so a
// collision never reads a neighbour that has not moved yet this tick. [Step]
// runs both stages.
//
// # Units
//
// Kinematic state ([Body.Pos], [Body.Vel], [Body.Accel]) is in world units.
// Physical parameters ([Params]) are SI: gravity in m/s², force in N, mass
// in kg. [Env.Scale] converts SI accelerations to world units per second
// squared inside the motion stage. With Scale == 1 the core is unit-agnostic.
//
// # Failure semantics
//
// Nothing in this package returns an error. Coincident centers get a random
// normal, non-finite force or mass gives zero acceleration, and near-zero
// velocities are snapped to zero below fixed thresholds.
package physics
