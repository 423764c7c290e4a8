// internal/game/snapshot_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	engine "github.com/smackdown/crazy8/engine"
	"github.com/smackdown/crazy8/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotHidesOpponentHands(t *testing.T) {
	r, players, _ := startedRoom(t, 3)
	rig(t, r, c(engine.SuitHearts, engine.RankSix), nil,
		[]engine.Card{c(engine.SuitHearts, engine.RankNine), c(engine.SuitClubs, engine.RankTen)},
		[]engine.Card{c(engine.SuitDiamonds, engine.RankNine)},
		[]engine.Card{c(engine.SuitSpades, engine.RankNine), c(engine.SuitSpades, engine.RankTwo), c(engine.SuitSpades, engine.RankThree)},
	)
	viewer := players[1]

	st := r.Snapshot(viewer.ID)
	assert.Equal(t, "AB12", st.Code)
	assert.Equal(t, PhaseInProgress, st.Phase)
	assert.Equal(t, players[0].ID, st.CurrentPlayerID)
	assert.Equal(t, "forward", st.Direction)
	require.NotNil(t, st.InPlay)
	assert.Equal(t, "6 of hearts", st.InPlay.Name)
	assert.Equal(t, 52-1-2-1-3, st.DrawPileSize)

	require.Len(t, st.Players, 3)
	for i, ps := range st.Players {
		assert.Equal(t, players[i].ID, ps.PlayerID)
		assert.Equal(t, 8, ps.Countdown)
		if ps.PlayerID == viewer.ID {
			require.Len(t, ps.Hand, 1)
			assert.Equal(t, "9 of diamonds", ps.Hand[0].Name)
		} else {
			assert.Nil(t, ps.Hand, "opponent faces are hidden")
		}
		assert.Nil(t, ps.Drawn)
	}
	assert.Equal(t, 2, st.Players[0].HandSize)
	assert.True(t, st.Players[0].IsCurrentTurn)
	assert.Equal(t, 3, st.Players[2].HandSize)
}

func TestSnapshotShowsOwnDrawnCard(t *testing.T) {
	r, players, _ := startedRoom(t, 2)
	drawn := c(engine.SuitHearts, engine.RankFive)
	rig(t, r, c(engine.SuitHearts, engine.RankSix), []engine.Card{drawn},
		[]engine.Card{c(engine.SuitClubs, engine.RankTen)},
		[]engine.Card{c(engine.SuitDiamonds, engine.RankNine)},
	)
	require.NoError(t, r.HandleAction(players[0].ID, Action{Kind: ActionDrawCard}))

	own := r.Snapshot(players[0].ID)
	require.NotNil(t, own.Players[0].Drawn)
	assert.Equal(t, drawn.Name(), own.Players[0].Drawn.Name)
	assert.Equal(t, 1, own.Seq)

	other := r.Snapshot(players[1].ID)
	assert.Nil(t, other.Players[0].Drawn)
	assert.Nil(t, other.Players[0].Hand)
}

func TestSnapshotLobby(t *testing.T) {
	r, _ := newTestRoom(t)
	a := models.NewPlayer("Alice", "green")
	require.NoError(t, r.Join(a))
	require.NoError(t, r.SetReady(a.ID, true))

	st := r.Snapshot(a.ID)
	assert.Equal(t, PhaseLobby, st.Phase)
	assert.Nil(t, st.InPlay)
	assert.Equal(t, uuid.Nil, st.CurrentPlayerID)
	require.Len(t, st.Players, 1)
	assert.True(t, st.Players[0].Ready)
	assert.Equal(t, "green", st.Players[0].Cosmetic)
	assert.Zero(t, st.Players[0].HandSize)
}

func TestSyncStateIsPrivate(t *testing.T) {
	r, players, mb := startedRoom(t, 2)
	require.NoError(t, r.SyncState(players[0].ID))
	assert.Empty(t, mb.types())
	ev := mb.getLastPlayerEvent(players[0].ID)
	require.NotNil(t, ev)
	assert.Equal(t, EventStateSync, ev.Type)
	require.NotNil(t, ev.State)
	assert.Len(t, ev.State.Players[0].Hand, 8)

	assert.ErrorIs(t, r.SyncState(uuid.New()), ErrNotInRoom)
}
