package collab

import "CollabProject/logger"

type HandlerFunc func(c *Client, f *Frame)

// Dispatcher routes client frames by event name.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

func (d *Dispatcher) Register(event string, h HandlerFunc) {
	d.handlers[event] = h
}

func (d *Dispatcher) Dispatch(c *Client, f *Frame) {
	h, ok := d.handlers[f.Event]
	if !ok {
		logger.Debugf("[collab] no handler for event=%s conn=%s", f.Event, c.ConnID)
		return
	}
	h(c, f)
}
