package services

import (
	"bytes"
	"context"
	"testing"

	"foxnut/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	db := newTestDB(t)
	importFixture(t, db)
	inv := NewInventoryService(db)
	ctx := context.Background()

	dcs, _, err := List[models.DataCenter](ctx, db, ListOptions{})
	require.NoError(t, err)
	require.Len(t, dcs, 1)

	root, err := inv.Tree(ctx, &dcs[0], 10)
	require.NoError(t, err)
	assert.Equal(t, "datacenters", root.Type)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "racks", root.Children[0].Label)

	rack := root.Children[0].Nodes[0]
	assert.Equal(t, "A01", rack.Name)
	labels := make([]string, 0, len(rack.Children))
	for _, g := range rack.Children {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{"servers", "switches"}, labels)

	var buf bytes.Buffer
	require.NoError(t, root.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "datacenters sh-01")
	assert.Contains(t, out, "switches tor-a01")
	assert.Contains(t, out, "server_ports eth0")
	assert.Contains(t, out, "switch_ports Eth1/1")

	shallow, err := inv.Tree(ctx, &dcs[0], 1)
	require.NoError(t, err)
	assert.Empty(t, shallow.Children[0].Nodes[0].Children)
}

func TestToResources(t *testing.T) {
	assert.Len(t, toResources([]models.Rack{{}, {}}), 2)
	assert.Empty(t, toResources((*models.SwitchPort)(nil)))
	assert.Len(t, toResources(&models.SwitchPort{}), 1)
	assert.Empty(t, toResources("not a resource"))
}
