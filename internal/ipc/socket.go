package ipc

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
)

// Message types of the i3/sway IPC protocol. Replies carry the same type as
// the request; event frames have the high bit set.
const (
	msgRunCommand    uint32 = 0
	msgGetWorkspaces uint32 = 1
	msgSubscribe     uint32 = 2
	msgGetOutputs    uint32 = 3
	msgGetTree       uint32 = 4
	msgGetVersion    uint32 = 7

	eventFlag uint32 = 1 << 31

	evWorkspace uint32 = eventFlag | 0
	evOutput    uint32 = eventFlag | 1
	evWindow    uint32 = eventFlag | 3
	evShutdown  uint32 = eventFlag | 6
	evTick      uint32 = eventFlag | 7
)

var ipcMagic = []byte("i3-ipc")

const headerLen = 14 // 6 magic bytes + two uint32 little endian

// SocketPath locates the compositor's IPC socket from the environment.
func SocketPath() (string, error) {
	if p := os.Getenv("SWAYSOCK"); p != "" {
		return p, nil
	}
	if p := os.Getenv("I3SOCK"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("neither SWAYSOCK nor I3SOCK is set")
}

// conn is one framed connection to the compositor socket.
type conn struct {
	sock net.Conn
}

func dial() (*conn, error) {
	path, err := SocketPath()
	if err != nil {
		return nil, err
	}
	sock, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect compositor socket: %w", err)
	}
	return &conn{sock: sock}, nil
}

func (c *conn) close() error {
	return c.sock.Close()
}

func (c *conn) send(msgType uint32, payload []byte) error {
	buf := make([]byte, headerLen+len(payload))
	copy(buf, ipcMagic)
	binary.LittleEndian.PutUint32(buf[6:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[10:], msgType)
	copy(buf[headerLen:], payload)
	if _, err := c.sock.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (c *conn) recv() (uint32, []byte, error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(c.sock, header); err != nil {
		return 0, nil, fmt.Errorf("read frame header: %w", err)
	}
	if string(header[:6]) != string(ipcMagic) {
		return 0, nil, fmt.Errorf("bad frame magic %q", header[:6])
	}
	length := binary.LittleEndian.Uint32(header[6:])
	msgType := binary.LittleEndian.Uint32(header[10:])
	payload := make([]byte, length)
	if _, err := io.ReadFull(c.sock, payload); err != nil {
		return 0, nil, fmt.Errorf("read frame payload: %w", err)
	}
	return msgType, payload, nil
}

// roundTrip sends one request and waits for the matching reply, skipping any
// event frames that arrive in between.
func (c *conn) roundTrip(msgType uint32, payload []byte) ([]byte, error) {
	if err := c.send(msgType, payload); err != nil {
		return nil, err
	}
	for {
		replyType, reply, err := c.recv()
		if err != nil {
			return nil, err
		}
		if replyType&eventFlag != 0 {
			continue
		}
		if replyType != msgType {
			return nil, fmt.Errorf("reply type %d does not match request type %d", replyType, msgType)
		}
		return reply, nil
	}
}
