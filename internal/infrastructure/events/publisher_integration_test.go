//go:build integration

package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func natsURL() string {
	if v := os.Getenv("NATS_URL"); v != "" {
		return v
	}
	return nats.DefaultURL
}

func TestNATSPublisher_Publish(t *testing.T) {
	nc, err := nats.Connect(natsURL())
	require.NoError(t, err)
	t.Cleanup(nc.Close)

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("itest.catalog.reloaded", ch)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	p := NewNATSPublisher(nc, "itest", nil)
	require.NoError(t, p.Publish(context.Background(), SubjectCatalogReloaded, CatalogReloaded{Source: "x", Jobs: 3}))

	select {
	case msg := <-ch:
		var got CatalogReloaded
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, 3, got.Jobs)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
