package discovery_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/discovery"
	mock_discovery "github.com/robgonnella/portwatch/internal/mock/discovery"
	"github.com/robgonnella/portwatch/internal/ports"
	"github.com/robgonnella/portwatch/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortScanner(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("reports only open ports in resolved order", func(st *testing.T) {
		tcpPorts, err := ports.Resolve("22,80-82")
		require.NoError(st, err)
		require.Equal(st, []int{22, 80, 81, 82}, tcpPorts)

		mockProber := mock_discovery.NewMockProber(ctrl)

		mockProber.EXPECT().ProbeTCP(gomock.Any(), 22).Return(false)
		mockProber.EXPECT().ProbeTCP(gomock.Any(), 80).Return(true)
		mockProber.EXPECT().ProbeTCP(gomock.Any(), 81).Return(false)
		mockProber.EXPECT().ProbeTCP(gomock.Any(), 82).Return(false)

		conf := config.Config{
			HostIdentifier: "h1",
			TCPPorts:       tcpPorts,
			UDPPorts:       []int{},
			Workers:        4,
		}

		before := time.Now().Unix()

		snap := discovery.NewPortScanner(conf, mockProber).Scan(ctx)

		require.NotNil(st, snap)
		assert.Equal(st, "h1", snap.HostIdentifier)
		assert.Equal(st, []int{80}, snap.OpenPorts[snapshot.TCP])
		assert.Equal(st, []int{}, snap.OpenPorts[snapshot.UDP])
		assert.GreaterOrEqual(st, snap.Timestamp, before)
		assert.LessOrEqual(st, snap.Timestamp, time.Now().Unix())
	})

	t.Run("keeps resolved order with concurrent workers", func(st *testing.T) {
		tcpPorts, err := ports.Resolve("1-20,5")
		require.NoError(st, err)

		mockProber := mock_discovery.NewMockProber(ctrl)

		// later ports finish first to shuffle completion order
		mockProber.EXPECT().
			ProbeTCP(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, port int) bool {
				time.Sleep(time.Duration(21-port) * time.Millisecond)
				return port%5 == 0
			}).
			Times(len(tcpPorts))

		mockProber.EXPECT().
			ProbeUDP(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, port int) bool {
				return port != 123
			}).
			Times(3)

		conf := config.Config{
			HostIdentifier: "h1",
			TCPPorts:       tcpPorts,
			UDPPorts:       []int{161, 123, 53},
			Workers:        8,
		}

		snap := discovery.NewPortScanner(conf, mockProber).Scan(ctx)

		assert.Equal(st, []int{5, 10, 15, 20, 5}, snap.OpenPorts[snapshot.TCP])
		assert.Equal(st, []int{161, 53}, snap.OpenPorts[snapshot.UDP])
	})

	t.Run("treats a panicking probe as closed", func(st *testing.T) {
		mockProber := mock_discovery.NewMockProber(ctrl)

		mockProber.EXPECT().
			ProbeTCP(gomock.Any(), 1).
			DoAndReturn(func(context.Context, int) bool {
				panic("boom")
			})
		mockProber.EXPECT().ProbeTCP(gomock.Any(), 2).Return(true)

		conf := config.Config{
			HostIdentifier: "h1",
			TCPPorts:       []int{1, 2},
			Workers:        1,
		}

		snap := discovery.NewPortScanner(conf, mockProber).Scan(ctx)

		assert.Equal(st, []int{2}, snap.OpenPorts[snapshot.TCP])
		assert.Equal(st, []int{}, snap.OpenPorts[snapshot.UDP])
	})

	t.Run("empty port sets produce empty snapshot", func(st *testing.T) {
		mockProber := mock_discovery.NewMockProber(ctrl)

		snap := discovery.NewPortScanner(config.Config{HostIdentifier: "h1"}, mockProber).Scan(ctx)

		assert.Equal(st, 0, snap.Count())
		assert.Equal(st, []int{}, snap.OpenPorts[snapshot.TCP])
		assert.Equal(st, []int{}, snap.OpenPorts[snapshot.UDP])
	})

	t.Run("honors rate limit", func(st *testing.T) {
		mockProber := mock_discovery.NewMockProber(ctrl)

		mockProber.EXPECT().ProbeTCP(gomock.Any(), gomock.Any()).Return(false).Times(4)

		conf := config.Config{
			HostIdentifier: "h1",
			TCPPorts:       []int{1, 2, 3, 4},
			Workers:        4,
			RateLimit:      20,
		}

		snap := discovery.NewPortScanner(conf, mockProber).Scan(ctx)

		assert.Empty(st, snap.OpenPorts[snapshot.TCP])
	})
}

func TestPortScannerWithNetProber(t *testing.T) {
	open, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer open.Close()

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closed.Addr().(*net.TCPAddr).Port
	require.NoError(t, closed.Close())

	openPort := open.Addr().(*net.TCPAddr).Port

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	conf := config.Config{
		HostIdentifier: "h1",
		TCPPorts:       []int{closedPort, openPort, closedPort},
		UDPPorts:       []int{pc.LocalAddr().(*net.UDPAddr).Port},
		Workers:        2,
		ScanTimeout:    100 * time.Millisecond,
	}

	prober := discovery.NewNetProber("127.0.0.1", conf.ScanTimeout)

	snap := discovery.NewPortScanner(conf, prober).Scan(context.Background())

	assert.Equal(t, []int{openPort}, snap.OpenPorts[snapshot.TCP])
	assert.Equal(t, []int{}, snap.OpenPorts[snapshot.UDP])
}

func TestOpenPorts(t *testing.T) {
	results := []discovery.ProbeResult{
		{Protocol: snapshot.TCP, Port: 443, Open: true},
		{Protocol: snapshot.TCP, Port: 22, Open: false},
		{Protocol: snapshot.TCP, Port: 80, Open: true},
	}

	assert.Equal(t, []int{443, 80}, discovery.OpenPorts(results))
	assert.Equal(t, []int{}, discovery.OpenPorts(nil))
}
