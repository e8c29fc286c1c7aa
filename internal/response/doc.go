// Package response computes the step response of the velocity-feedback
// closed loop with a fixed-step explicit Euler sweep.
//
// [Simulate] is a pure function of its [Params]: it allocates a fresh
// [Trace] on every call, never mutates it afterwards, and never stabilizes
// a diverging run. Large gains or coarse steps make forward Euler blow up;
// that growth is part of the output.
//
// # Example
//
//	p := response.Params{Kp: response.EffectiveGain(1.0, 30), Xi: 0.7, H: 0.02, TEnd: 10}
//	tr, err := response.Simulate(p)
//	if err != nil {
//		return err
//	}
//	fmt.Println(tr.Len(), tr.Y[tr.Len()-1])
package response
