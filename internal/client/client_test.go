package client

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Ehco1996/myftp/internal/binder"
	"github.com/Ehco1996/myftp/internal/server"
)

type fakeResolver map[string][]net.IPAddr

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	return f[host], nil
}

func nopLogger() Option {
	return WithLogger(zap.NewNop().Sugar())
}

func startServer(t *testing.T) *server.Server {
	t.Helper()
	s, err := server.New("127.0.0.1:0", server.WithLogger(zap.NewNop().Sugar()))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

// sentinel is a socket that must never see any datagram.
func sentinel(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func assertSilent(t *testing.T, conn *net.UDPConn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	n, _, err := conn.ReadFromUDP(make([]byte, 64))
	assert.Error(t, err, "unexpected datagram of %d bytes", n)
}

func TestRoundTripPing(t *testing.T) {
	s := startServer(t)

	c, err := Connect(context.Background(), s.Addr().String(), nopLogger())
	require.NoError(t, err)
	defer c.Close()

	reply, err := c.RoundTrip([]byte("ping\n"))
	require.NoError(t, err)
	assert.Contains(t, reply, "Bytes received: 5")
	assert.Contains(t, reply, "Request origin: 127.0.0.1:"+strconv.Itoa(c.LocalAddr().Port))
	assert.Equal(t, int64(1), c.RoundTrips())
}

func TestRunForwardsLinesUntilEOF(t *testing.T) {
	s := startServer(t)
	core, logs := observer.New(zapcore.InfoLevel)

	c, err := Connect(context.Background(), s.Addr().String(), WithLogger(zap.New(core).Sugar()))
	require.NoError(t, err)
	defer c.Close()

	err = c.Run(context.Background(), strings.NewReader("ping\nhello world\nno newline"))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, int64(3), c.RoundTrips())

	var sizes []string
	for _, e := range logs.All() {
		if strings.HasPrefix(e.Message, "body:\n") {
			for _, line := range strings.Split(e.Message, "\n") {
				if strings.Contains(line, "Bytes received:") {
					sizes = append(sizes, strings.TrimSpace(line))
				}
			}
		}
	}
	assert.Equal(t, []string{
		"- Bytes received: 5",
		"- Bytes received: 12",
		"- Bytes received: 10",
	}, sizes)
}

func TestRunEmptyInput(t *testing.T) {
	peer := sentinel(t)
	c, err := Connect(context.Background(), peer.LocalAddr().String(), nopLogger())
	require.NoError(t, err)
	defer c.Close()

	err = c.Run(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, io.EOF)
	assertSilent(t, peer)
}

func TestRunStopsOnCancel(t *testing.T) {
	peer := sentinel(t)
	c, err := Connect(context.Background(), peer.LocalAddr().String(), nopLogger())
	require.NoError(t, err)

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx, pr) }()

	// the peer never answers, so the client blocks in recv
	_, err = pw.Write([]byte("anyone?\n"))
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunStopsOnCancelWhileAwaitingInput(t *testing.T) {
	peer := sentinel(t)
	c, err := Connect(context.Background(), peer.LocalAddr().String(), nopLogger())
	require.NoError(t, err)

	// nothing is ever written, the client sits at the prompt
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx, pr) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("run still blocked on input after cancel")
	}
	assertSilent(t, peer)
}

func TestConnectMultipleAddresses(t *testing.T) {
	peer := sentinel(t)
	port := strconv.Itoa(peer.LocalAddr().(*net.UDPAddr).Port)
	r := fakeResolver{"multi.test": {{IP: net.ParseIP("127.0.0.1")}, {IP: net.ParseIP("::1")}}}

	c, err := Connect(context.Background(), "multi.test:"+port, WithResolver(r), nopLogger())
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, binder.ErrMultipleAddresses)
	assertSilent(t, peer)
}

func TestConnectZeroAddresses(t *testing.T) {
	r := fakeResolver{"empty.test": {}}

	_, err := Connect(context.Background(), "empty.test:9000", WithResolver(r), nopLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, binder.ErrInvalidAddress)
	assert.True(t, binder.IsConfigError(err))
}

func TestConnectSingleResolvedHost(t *testing.T) {
	s := startServer(t)
	r := fakeResolver{"echo.test": {{IP: net.ParseIP("127.0.0.1")}}}

	c, err := Connect(context.Background(), "echo.test:"+strconv.Itoa(s.Addr().Port), WithResolver(r), nopLogger())
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, s.Addr().String(), c.RemoteAddr().String())

	reply, err := c.RoundTrip([]byte("ping\n"))
	require.NoError(t, err)
	assert.Contains(t, reply, "Bytes received: 5")
}

func TestConnectBindError(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:9000", WithBindAddress("bogus"), nopLogger())
	assert.Error(t, err)
	assert.False(t, binder.IsConfigError(err))
}
