package ipc

import (
	"net"
	"testing"
)

func pipeConns() (*conn, *conn) {
	a, b := net.Pipe()
	return &conn{sock: a}, &conn{sock: b}
}

func TestFrameRoundTrip(t *testing.T) {
	client, server := pipeConns()
	defer client.close()
	defer server.close()

	go func() {
		_ = client.send(msgGetTree, []byte(`{"id":1}`))
	}()
	msgType, payload, err := server.recv()
	if err != nil {
		t.Fatalf("recv: %v", err)
	}
	if msgType != msgGetTree {
		t.Fatalf("type = %d, want %d", msgType, msgGetTree)
	}
	if string(payload) != `{"id":1}` {
		t.Fatalf("payload = %q", payload)
	}
}

func TestRecvRejectsBadMagic(t *testing.T) {
	client, server := pipeConns()
	defer client.close()
	defer server.close()

	go func() {
		_, _ = client.sock.Write([]byte("not-i3-magic-frame"))
	}()
	if _, _, err := server.recv(); err == nil {
		t.Fatalf("expected bad magic error")
	}
}

func TestRoundTripSkipsInterleavedEventFrames(t *testing.T) {
	client, server := pipeConns()
	defer client.close()
	defer server.close()

	go func() {
		_, _, _ = server.recv()
		_ = server.send(evWindow, []byte(`{"change":"focus"}`))
		_ = server.send(msgRunCommand, []byte(`[{"success":true}]`))
	}()
	reply, err := client.roundTrip(msgRunCommand, []byte(`nop`))
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if string(reply) != `[{"success":true}]` {
		t.Fatalf("reply = %q", reply)
	}
}

func TestRoundTripRejectsMismatchedReplyType(t *testing.T) {
	client, server := pipeConns()
	defer client.close()
	defer server.close()

	go func() {
		_, _, _ = server.recv()
		_ = server.send(msgGetOutputs, []byte(`[]`))
	}()
	if _, err := client.roundTrip(msgGetTree, nil); err == nil {
		t.Fatalf("expected reply type mismatch error")
	}
}

func TestSocketPathPrefersSwaysock(t *testing.T) {
	t.Setenv("SWAYSOCK", "/run/sway.sock")
	t.Setenv("I3SOCK", "/run/i3.sock")
	if p, err := SocketPath(); err != nil || p != "/run/sway.sock" {
		t.Fatalf("path = %q, %v", p, err)
	}
	t.Setenv("SWAYSOCK", "")
	if p, err := SocketPath(); err != nil || p != "/run/i3.sock" {
		t.Fatalf("path = %q, %v", p, err)
	}
	t.Setenv("I3SOCK", "")
	if _, err := SocketPath(); err == nil {
		t.Fatalf("expected error without socket env")
	}
}
