package persistence

import "github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"

// Instrumented records a storage metric for every call to the wrapped adapter
type Instrumented struct {
	Adapter
	backend string
	metrics *monitoring.Metrics
}

// NewInstrumented wraps inner, labelling its calls with backend
func NewInstrumented(inner Adapter, backend string, metrics *monitoring.Metrics) *Instrumented {
	return &Instrumented{Adapter: inner, backend: backend, metrics: metrics}
}

func (i *Instrumented) Get(key string) (data []byte, ok bool, err error) {
	timer := monitoring.NewTimer(i.metrics, i.backend, "get")
	defer func() { timer.Stop(err) }()
	return i.Adapter.Get(key)
}

func (i *Instrumented) Set(key string, data []byte) (err error) {
	timer := monitoring.NewTimer(i.metrics, i.backend, "set")
	defer func() { timer.Stop(err) }()
	return i.Adapter.Set(key, data)
}

func (i *Instrumented) Remove(key string) (err error) {
	timer := monitoring.NewTimer(i.metrics, i.backend, "remove")
	defer func() { timer.Stop(err) }()
	return i.Adapter.Remove(key)
}
