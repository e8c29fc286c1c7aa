// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// step-response lab:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Metric]: observer that folds samples into a scalar
//   - [Configurable]: named parameters that can be read and overridden
//
// # Example
//
//	loop := models.NewClosedLoop(1.3, 0.7)
//	euler := integrators.NewEuler()
//	next := euler.Step(loop, dynamo.State{0, 0}, dynamo.Control{1}, 0, 0.02)
package dynamo
