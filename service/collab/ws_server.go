package collab

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"CollabProject/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server owns the websocket endpoint and the per-connection read loop.
type Server struct {
	co   *Coordinator
	disp *Dispatcher
}

func NewServer(co *Coordinator) *Server {
	s := &Server{co: co, disp: NewDispatcher()}

	s.disp.Register(EvtJoinDocument, func(c *Client, f *Frame) {
		co.JoinRoom(c.ConnID, f.DocumentID)
	})
	s.disp.Register(EvtEditDocument, func(c *Client, f *Frame) {
		co.Edit(c.ConnID, f.DocumentID, f.Content)
	})
	relay := func(c *Client, f *Frame) {
		co.RelayComment(c.ConnID, f.DocumentID, f.Event, f.Payload)
	}
	s.disp.Register(EvtCommentAdded, relay)
	s.disp.Register(EvtCommentUpdated, relay)
	s.disp.Register(EvtCommentDeleted, relay)
	s.disp.Register(EvtCommentResolved, relay)

	return s
}

// credential pulls the optional transport-level auth parameter: a ?token=
// query value, falling back to an Authorization bearer header.
func credential(c *gin.Context) string {
	if tok := strings.TrimSpace(c.Query("token")); tok != "" {
		return tok
	}
	authz := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

// HandleWS upgrades the request and runs the read loop until the transport
// closes. Application-level failures (bad token, malformed frames, unknown
// events) never close the channel.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[ws] upgrade failed: %v", err)
		return
	}

	client := s.co.Connect(ws, credential(c))
	go client.WritePump()

	defer func() {
		s.co.Disconnect(client.ConnID)
		client.Shutdown()
		if cerr := ws.Close(); cerr != nil {
			logger.Debugf("[ws] close conn=%s err=%v", client.ConnID, cerr)
		}
	}()

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[ws] peer closed conn=%s", client.ConnID)
			} else {
				logger.Infof("[ws] read err conn=%s err=%v", client.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[ws] bad frame conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			continue
		}

		s.disp.Dispatch(client, frame)
	}
}
