package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/wizardformz/formkit/pkg/logging"
	"github.com/wizardformz/formkit/pkg/protocol"
	"github.com/wizardformz/formkit/pkg/widget"
)

// Preview channel subprotocols.
const (
	subprotocolJSON    = "formkit.json"
	subprotocolMsgPack = "formkit.msgpack"
)

// handleLive hosts one widget instance per connection and replays the
// event/render exchange until the client goes away. Each connection
// carries its own RuntimeState; closing the socket discards it.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["id"]
	def, err := s.store.Get(r.Context(), formID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols: []string{subprotocolJSON, subprotocolMsgPack},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", logging.Err(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection dropped")

	var codec protocol.Codec = protocol.NewJSONCodec()
	frameType := websocket.MessageText
	if conn.Subprotocol() == subprotocolMsgPack {
		codec = protocol.NewMsgPackCodec()
		frameType = websocket.MessageBinary
	}

	logger := s.logger.With(logging.String("form_id", formID))
	wid, err := widget.New(def, widget.WithLogger(logger))
	if err != nil {
		conn.Close(websocket.StatusInternalError, "invalid definition")
		return
	}

	ctx := r.Context()
	logger.Debug("preview session started", logging.String("codec", codec.Name()))

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				errors.Is(err, context.Canceled) {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			logger.Debug("preview session ended", logging.Err(err))
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			s.writeFrame(ctx, conn, frameType, codec, protocol.NewError(formID, err))
			continue
		}
		if msg.Type == protocol.MsgHeartbeat {
			continue
		}
		if msg.Type != protocol.MsgEvent {
			continue
		}

		if err := wid.HandleEvent(ctx, msg.Event, msg.Payload); err != nil {
			s.writeFrame(ctx, conn, frameType, codec, protocol.NewError(formID, err))
			continue
		}

		s.writeFrame(ctx, conn, frameType, codec, protocol.NewRender(formID, wid.HTML()))

		if msg.Event == widget.EventSubmit {
			if outcome := wid.LastOutcome(); outcome != nil {
				s.writeFrame(ctx, conn, frameType, codec,
					protocol.NewOutcome(formID, outcome.Kind.String(), outcome.Values))
			}
		}
	}
}

func (s *Server) writeFrame(ctx context.Context, conn *websocket.Conn,
	frameType websocket.MessageType, codec protocol.Codec, msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		s.logger.Error("encode frame", logging.Err(err))
		return
	}
	if err := conn.Write(ctx, frameType, data); err != nil {
		s.logger.Debug("write frame", logging.Err(err))
	}
}
