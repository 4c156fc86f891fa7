package testnats

import (
	"context"
	"sync"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	broker     *NATSContainer
	brokerOnce sync.Once
)

// NATSContainer is a throwaway broker for domain event publisher tests
type NATSContainer struct {
	Container testcontainers.Container
	URL       string
}

// SetupSharedNATS starts one NATS broker per test binary. Subjects are not
// isolated between tests, so subscribe to the prefix your test publishes on
// (e.g. "campus.>") and do not run such tests in parallel.
//
//	broker := testnats.SetupSharedNATS(t)
//	sub := broker.Subscribe(t, "campus.>")
//	publisher, _ := messaging.NewNATSPublisher(broker.URL, "campus", logger.Discard())
func SetupSharedNATS(t *testing.T) *NATSContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping NATS container test in short mode")
	}

	brokerOnce.Do(func() {
		ctx := context.Background()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "nats:2.10-alpine",
				ExposedPorts: []string{"4222/tcp"},
				WaitingFor:   wait.ForListeningPort("4222/tcp"),
			},
			Started: true,
		})
		require.NoError(t, err)

		host, err := container.Host(ctx)
		require.NoError(t, err)
		port, err := container.MappedPort(ctx, "4222")
		require.NoError(t, err)

		broker = &NATSContainer{
			Container: container,
			URL:       "nats://" + host + ":" + port.Port(),
		}
	})

	require.NotNil(t, broker, "NATS container failed to start")
	return broker
}

// Cleanup terminates the broker; call it from the test that set it up
func (nc *NATSContainer) Cleanup(t *testing.T) {
	t.Helper()

	if nc.Container == nil {
		return
	}
	if err := nc.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate NATS container: %s", err)
	}
}

// Connect opens a client connection closed when the test ends
func (nc *NATSContainer) Connect(t *testing.T) *nats.Conn {
	t.Helper()

	conn, err := nats.Connect(nc.URL)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	return conn
}

// Subscribe returns a synchronous subscription that is live on the server
// before it returns, so nothing published afterwards is missed.
func (nc *NATSContainer) Subscribe(t *testing.T, subject string) *nats.Subscription {
	t.Helper()

	conn := nc.Connect(t)
	sub, err := conn.SubscribeSync(subject)
	require.NoError(t, err)
	require.NoError(t, conn.Flush())
	t.Cleanup(func() { _ = sub.Unsubscribe() })

	return sub
}
