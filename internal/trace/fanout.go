package trace

import "errors"

// fanout hands each event to several tracers.
type fanout struct {
	tracers []Tracer
	level   Level
}

func (f *fanout) Emit(ev *Event) {
	for _, tr := range f.tracers {
		// стрим и кольцо не должны делить одно событие
		cp := *ev
		tr.Emit(&cp)
	}
}

func (f *fanout) Flush() error {
	var errs []error
	for _, tr := range f.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, tr := range f.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level  { return f.level }
func (f *fanout) Enabled() bool { return f.level > LevelOff }
