package lerp

// PingPong oscillates between A and B by repeatedly stepping toward one end
// and swapping the target when it is reached.
type PingPong struct {
	A, B float64
	Rate float64
	// Cycles is the number of A->B->A round trips; 0 runs forever.
	Cycles int

	state  State
	legs   int
	primed bool
}

// NewPingPong starts at a, heading toward b.
func NewPingPong(a, b, rate float64, cycles int) *PingPong {
	return &PingPong{A: a, B: b, Rate: rate, Cycles: cycles}
}

// Value returns the current value.
func (p *PingPong) Value() float64 {
	if !p.primed {
		return p.A
	}
	return p.state.Current
}

// Legs returns how many times an end has been reached.
func (p *PingPong) Legs() int {
	return p.legs
}

// Tick advances one step. finished is true once Cycles round trips are done.
func (p *PingPong) Tick() (value float64, finished bool, err error) {
	if !p.primed {
		p.state = State{Current: p.A, Target: p.B, Rate: p.Rate}
		p.primed = true
	}
	if p.finished() {
		return p.state.Current, true, nil
	}
	done, err := p.state.Advance()
	if err != nil {
		return p.state.Current, false, err
	}
	if done {
		p.legs++
		if p.state.Target == p.B {
			p.state.Target = p.A
		} else {
			p.state.Target = p.B
		}
	}
	return p.state.Current, p.finished(), nil
}

func (p *PingPong) finished() bool {
	return p.Cycles > 0 && p.legs >= 2*p.Cycles
}
