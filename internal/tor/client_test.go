package tor

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("valid address", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("127.0.0.1:9050")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.ProxyAddress() != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress() = %q", client.ProxyAddress())
		}
	})

	t.Run("invalid addresses", func(t *testing.T) {
		t.Parallel()

		for _, addr := range []string{"", "127.0.0.1", ":9050", "localhost:0", "localhost:65536", "localhost:port"} {
			if _, err := NewClient(addr); !errors.Is(err, ErrInvalidProxyAddress) {
				t.Errorf("NewClient(%q): expected ErrInvalidProxyAddress, got %v", addr, err)
			}
		}
	})
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient("127.0.0.1:9050")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hc := client.NewHTTPClient(15 * time.Second)
	if hc.Timeout != 15*time.Second {
		t.Errorf("timeout = %v, want 15s", hc.Timeout)
	}
	if hc.Transport == nil {
		t.Fatal("expected custom transport")
	}

	if client.NewHTTPClient(0).Timeout != 0 {
		t.Error("zero timeout should stay unbounded")
	}
}

// serveOnce accepts a single connection and hands it to handle.
func serveOnce(t *testing.T, handle func(net.Conn)) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}()

	return listener.Addr().String()
}

func TestCheckConnection(t *testing.T) {
	t.Parallel()

	t.Run("OK for SOCKS5 proxy", func(t *testing.T) {
		t.Parallel()

		addr := serveOnce(t, func(conn net.Conn) {
			greeting := make([]byte, 3)
			_, _ = conn.Read(greeting)
			_, _ = conn.Write([]byte{0x05, 0x00})

			request := make([]byte, 256)
			_, _ = conn.Read(request)
			// Host unreachable is still a proper SOCKS5 reply.
			_, _ = conn.Write([]byte{0x05, 0x04, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		})

		client, err := NewClient(addr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := client.CheckConnection(context.Background()); status != ProxyStatusOK {
			t.Errorf("status = %v, want OK", status)
		}
	})

	t.Run("WrongType for HTTP server", func(t *testing.T) {
		t.Parallel()

		addr := serveOnce(t, func(conn net.Conn) {
			greeting := make([]byte, 3)
			_, _ = conn.Read(greeting)
			_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\n\r\n"))
		})

		client, err := NewClient(addr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := client.CheckConnection(context.Background()); status != ProxyStatusWrongType {
			t.Errorf("status = %v, want WrongType", status)
		}
	})

	t.Run("WrongType when authentication is required", func(t *testing.T) {
		t.Parallel()

		addr := serveOnce(t, func(conn net.Conn) {
			greeting := make([]byte, 3)
			_, _ = conn.Read(greeting)
			_, _ = conn.Write([]byte{0x05, 0xFF})
		})

		client, err := NewClient(addr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := client.CheckConnection(context.Background()); status != ProxyStatusWrongType {
			t.Errorf("status = %v, want WrongType", status)
		}
	})

	t.Run("CannotConnect for closed port", func(t *testing.T) {
		t.Parallel()

		listener, err := net.Listen("tcp", "127.0.0.1:0") //nolint:noctx // test code
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		addr := listener.Addr().String()
		_ = listener.Close()

		client, err := NewClient(addr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status := client.CheckConnection(context.Background()); status != ProxyStatusCannotConnect {
			t.Errorf("status = %v, want CannotConnect", status)
		}
	})
}
