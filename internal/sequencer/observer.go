package sequencer

// Observer receives presentation notifications. A sequencer has a single
// observer slot; callbacks run synchronously on the goroutine that caused
// them, after the sequencer has been unlocked, so they may call back in.
type Observer interface {
	// StepChanged fires when step k becomes audible, and with 0 on Stop.
	StepChanged(step int)
	PatternChanged(pattern int)
	InstrumentChanged(track int, instrument, displayName string)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Step       func(step int)
	Pattern    func(pattern int)
	Instrument func(track int, instrument, displayName string)
}

func (o ObserverFuncs) StepChanged(step int) {
	if o.Step != nil {
		o.Step(step)
	}
}

func (o ObserverFuncs) PatternChanged(pattern int) {
	if o.Pattern != nil {
		o.Pattern(pattern)
	}
}

func (o ObserverFuncs) InstrumentChanged(track int, instrument, displayName string) {
	if o.Instrument != nil {
		o.Instrument(track, instrument, displayName)
	}
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (obs Observers) StepChanged(step int) {
	for _, o := range obs {
		o.StepChanged(step)
	}
}

func (obs Observers) PatternChanged(pattern int) {
	for _, o := range obs {
		o.PatternChanged(pattern)
	}
}

func (obs Observers) InstrumentChanged(track int, instrument, displayName string) {
	for _, o := range obs {
		o.InstrumentChanged(track, instrument, displayName)
	}
}
