package metrics

import "github.com/kilianp07/promo/core/factory"

var recorderRegistry = factory.NewRegistry[Recorder]()

func init() {
	recorderRegistry.MustRegister("nop", func(map[string]any) (Recorder, error) {
		return NopRecorder{}, nil
	})
}

// RegisterRecorder adds a recorder factory identified by name.
func RegisterRecorder(name string, f factory.Factory[Recorder]) error {
	return recorderRegistry.Register(name, f)
}

// MustRegisterRecorder is like RegisterRecorder but panics on error. It is
// meant for init functions.
func MustRegisterRecorder(name string, f factory.Factory[Recorder]) {
	recorderRegistry.MustRegister(name, f)
}

// NewRecorder creates a Recorder from the provided sink configurations.
func NewRecorder(cfgs []factory.ModuleConfig) (Recorder, error) {
	if len(cfgs) == 0 {
		return NopRecorder{}, nil
	}
	if len(cfgs) == 1 {
		return recorderRegistry.Create(cfgs[0])
	}
	recs := make([]Recorder, len(cfgs))
	for i, c := range cfgs {
		r, err := recorderRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		recs[i] = r
	}
	return NewMultiRecorder(recs...), nil
}
