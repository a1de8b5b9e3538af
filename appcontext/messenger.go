package appcontext

import (
	"github.com/kbukum/wirekit/bus"
	"github.com/kbukum/wirekit/di"
)

// messenger lends a context's bus to the views its resolver builds.
type messenger struct {
	c *Context
}

var _ di.Messenger = messenger{}

func (m messenger) Listen(listener any, event string, handler di.Handler) {
	m.c.Listen(listener, event, func(e bus.Event) { handler(e.Name, e.Payload) })
}

func (m messenger) Dispatch(event string, payload any) {
	m.c.Dispatch(event, payload)
}

func (m messenger) StopListening(listener any) {
	m.c.StopListening(listener)
}
