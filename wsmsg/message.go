// Package wsmsg assembles WebSocket frames (wsproto.Frame) into logical
// messages: it reassembles fragmented messages, answers ping/close frames
// inline, and offers both a blocking and a non-blocking-first-frame read
// path.
package wsmsg

import (
	"errors"
	"io"

	"github.com/fenwick-labs/humphrey/wsproto"
)

// ErrConnectionClosed is returned once a Close frame has been observed and
// echoed back.
var ErrConnectionClosed = errors.New("wsmsg: connection closed")

// Message is a fully reassembled WebSocket message.
type Message struct {
	Opcode  wsproto.Opcode
	Payload []byte
}

// IsText reports whether the message's first fragment was a Text frame.
func (m Message) IsText() bool { return m.Opcode == wsproto.OpcodeText }

// FrameReader reads one frame, blocking until it is fully available.
type FrameReader interface {
	ReadFrame() (wsproto.Frame, error)
}

// NonBlockingFrameReader additionally supports a non-blocking first read:
// TryReadFrame returns (frame, true, nil) if a frame was available,
// (zero, false, nil) if none was available yet, or (zero, false, err) on
// error.
type NonBlockingFrameReader interface {
	FrameReader
	TryReadFrame() (wsproto.Frame, bool, error)
}

// ReadMessage blocks until a complete message (all fragments through
// FIN=1) has been read. Ping frames are answered with Pong inline; a Close
// frame is echoed and reported as ErrConnectionClosed.
func ReadMessage(fr FrameReader, w io.Writer) (Message, error) {
	return assemble(nil, fr, w)
}

// TryReadMessage behaves like ReadMessage, except the first frame is read
// non-blockingly: if no data is available yet it returns (zero, false,
// nil). Once a first frame has arrived, any remaining fragments of that
// message are read with a blocking ReadFrame.
func TryReadMessage(fr NonBlockingFrameReader, w io.Writer) (Message, bool, error) {
	first, ok, err := fr.TryReadFrame()
	if err != nil {
		return Message{}, false, err
	}
	if !ok {
		return Message{}, false, nil
	}
	msg, err := assemble(&first, fr, w)
	if err != nil {
		return Message{}, true, err
	}
	return msg, true, nil
}

func assemble(first *wsproto.Frame, fr FrameReader, w io.Writer) (Message, error) {
	var (
		opcode wsproto.Opcode
		buf    []byte
		f      wsproto.Frame
		err    error
	)

	for {
		if first != nil {
			f, first = *first, nil
		} else {
			f, err = fr.ReadFrame()
			if err != nil {
				return Message{}, err
			}
		}

		switch f.Opcode {
		case wsproto.OpcodePing:
			pong := wsproto.Frame{Fin: true, Opcode: wsproto.OpcodePong, Payload: f.Payload}
			if _, err := pong.WriteTo(w, false); err != nil {
				return Message{}, err
			}
			continue
		case wsproto.OpcodePong:
			continue
		case wsproto.OpcodeClose:
			closeFrame := wsproto.Frame{Fin: true, Opcode: wsproto.OpcodeClose, Payload: f.Payload}
			_, _ = closeFrame.WriteTo(w, false)
			return Message{}, ErrConnectionClosed
		case wsproto.OpcodeText, wsproto.OpcodeBinary:
			opcode = f.Opcode
			buf = append(buf, f.Payload...)
		case wsproto.OpcodeContinuation:
			buf = append(buf, f.Payload...)
		}

		if f.Fin {
			break
		}
	}

	return Message{Opcode: opcode, Payload: buf}, nil
}

// WriteMessage emits msg as a single unmasked frame with FIN=1.
func WriteMessage(w io.Writer, msg Message) error {
	f := wsproto.Frame{Fin: true, Opcode: msg.Opcode, Payload: msg.Payload}
	_, err := f.WriteTo(w, false)
	return err
}
