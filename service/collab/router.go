package collab

type fanoutJob struct {
	clients []*Client
	payload []byte
}

// Fanout delivers payloads to client send queues off the caller's path.
// A single worker drains the job queue, so jobs reach every peer in the
// order they were enqueued; the per-client push is non-blocking, so a slow
// peer drops frames instead of stalling the room.
type Fanout struct {
	jobs chan fanoutJob
}

func NewFanout(queue int) *Fanout {
	f := &Fanout{jobs: make(chan fanoutJob, queue)}
	go func() {
		for job := range f.jobs {
			for _, c := range job.clients {
				select {
				case c.Send <- job.payload:
				default:
					// slow client, skip
				}
			}
		}
	}()
	return f
}

func (f *Fanout) enqueue(clients []*Client, payload []byte) {
	if len(clients) == 0 || len(payload) == 0 {
		return
	}
	f.jobs <- fanoutJob{clients: clients, payload: payload}
}

// Router fans events out to a document room.
type Router struct {
	reg    *Registry
	fanout *Fanout
}

func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg, fanout: NewFanout(1024)}
}

// Broadcast delivers to every connection in the room except the originator,
// which never receives an echo of its own event.
func (r *Router) Broadcast(docID, excludeConnID string, payload []byte) {
	r.fanout.enqueue(r.reg.ListRoom(docID, excludeConnID), payload)
}

// NotifyAll delivers to every connection in the room, originator included.
func (r *Router) NotifyAll(docID string, payload []byte) {
	r.fanout.enqueue(r.reg.ListRoom(docID, ""), payload)
}
