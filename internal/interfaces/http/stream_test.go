package http

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/realtime"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

type staticView struct {
	items []entity.StorageLocation
	state realtime.State
	err   error
}

func (v staticView) Snapshot() []entity.StorageLocation { return v.items }
func (v staticView) State() realtime.State              { return v.state }
func (v staticView) Err() error                         { return v.err }

func TestSnapshotOf_Activa(t *testing.T) {
	snap := snapshotOf(staticView{
		state: realtime.StateActive,
		items: []entity.StorageLocation{{ID: "l1", Name: "Bodega", Schema: entity.SchemaDescribed}},
	})

	assert.Equal(t, string(realtime.StateActive), snap.State)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Bodega", snap.Items[0].Name)
	assert.Empty(t, snap.Error)
}

func TestSnapshotOf_ErrorSeTraduceSinCausaInterna(t *testing.T) {
	snap := snapshotOf(staticView{
		state: realtime.StateError,
		err:   domain.SubscriptionSetupFailure("storage_locations.subscribe", errors.New("EOF en /api/realtime")),
	})

	assert.Equal(t, string(realtime.StateError), snap.State)
	assert.NotEmpty(t, snap.Error)
	assert.NotContains(t, snap.Error, "/api/realtime")
	assert.NotNil(t, snap.Items, "la lista vacía se serializa como []")

	assert.Equal(t, "error inesperado", snapshotOf(staticView{err: errors.New("x")}).Error)
}

func TestWriteSnapshot_FormatoSSE(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	err := writeSnapshot(w, staticView{
		state: realtime.StateActive,
		items: []entity.StorageLocation{{ID: "l1", Name: "Estante A", Schema: entity.SchemaPositioned, Position: "3"}},
	})
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "event: snapshot\ndata: "), "salida: %q", out)
	require.True(t, strings.HasSuffix(out, "\n\n"), "cada evento termina con línea en blanco")

	var snap dto.StorageLocationSnapshot
	payload := strings.TrimSuffix(strings.TrimPrefix(out, "event: snapshot\ndata: "), "\n\n")
	require.NoError(t, json.Unmarshal([]byte(payload), &snap))
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "3", snap.Items[0].Position)
	assert.Equal(t, entity.SchemaPositioned, snap.Items[0].Schema)
}
