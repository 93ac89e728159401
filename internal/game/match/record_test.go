package match_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/match"
)

func TestMode(t *testing.T) {
	for _, name := range []string{"PVP", "pve", " Eve "} {
		_, err := match.ParseMode(name)
		assert.NoError(t, err, name)
	}
	_, err := match.ParseMode("coop")
	assert.Error(t, err)

	assert.False(t, match.ModePVP.AI(combat.SideOne))
	assert.False(t, match.ModePVP.AI(combat.SideTwo))
	assert.False(t, match.ModePVE.AI(combat.SideOne))
	assert.True(t, match.ModePVE.AI(combat.SideTwo))
	assert.True(t, match.ModeEVE.AI(combat.SideOne))
	assert.True(t, match.ModeEVE.AI(combat.SideTwo))
}

func TestLabel(t *testing.T) {
	cases := []struct {
		mode    match.Mode
		outcome match.Outcome
		want    string
	}{
		{match.ModePVE, match.OutcomePlayer1, "VICTORY"},
		{match.ModePVE, match.OutcomePlayer2, "DEFEAT"},
		{match.ModePVP, match.OutcomePlayer1, "PLAYER 1 WINS"},
		{match.ModeEVE, match.OutcomePlayer2, "PLAYER 2 WINS"},
		{match.ModePVE, match.OutcomeDraw, "DRAW"},
		{match.ModePVP, match.OutcomePremature, "GAME CLOSED"},
		{match.ModePVP, match.OutcomeNone, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, match.Label(tc.mode, tc.outcome))
	}
}

func TestRecord_YAML(t *testing.T) {
	rec := match.Record{
		ID:         uuid.MustParse("6f1c2b7e-3c1d-4a51-9b7a-2f0c8d9e1a23"),
		Winner:     match.OutcomeDraw,
		Archetype1: "Sage",
		Archetype2: "Knight",
		Mode:       match.ModeEVE,
		Ticks:      420,
		RecordedAt: fixedNow,
	}
	out, err := yaml.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(out), "winner: draw")
	assert.Contains(t, string(out), "mode: EVE")

	var back match.Record
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, rec.ID, back.ID)
	assert.Equal(t, rec.Winner, back.Winner)
	assert.Equal(t, rec.Mode, back.Mode)
	assert.True(t, rec.RecordedAt.Equal(back.RecordedAt))

	assert.Error(t, yaml.Unmarshal([]byte("winner: nobody\n"), &back))
}

func TestRecord_Summary(t *testing.T) {
	rec := match.Record{Archetype1: "Sage", Archetype2: "Knight", Mode: match.ModePVE, Winner: match.OutcomePlayer2}
	assert.Equal(t, "PVE: Sage vs Knight - Knight won", rec.Summary())
	rec.Winner = match.OutcomePremature
	assert.Equal(t, "PVE: Sage vs Knight - Game closed", rec.Summary())
}

func TestMemorySink(t *testing.T) {
	var sink match.MemorySink
	require.NoError(t, sink.Record(context.Background(), match.Record{Ticks: 1}))
	require.NoError(t, sink.Record(context.Background(), match.Record{Ticks: 2}))
	recs := sink.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Ticks)
	recs[0].Ticks = 99
	assert.Equal(t, 1, sink.Records()[0].Ticks, "Records returns a copy")
}

func TestRunner_RecordsFinishedRound(t *testing.T) {
	tb := newTable(t, 1)
	cfg := quickConfig(match.ModePVE)
	cfg.RoundOverCooldownMs = 0
	m := tb.idle(t, cfg, "Knight", "Mage")
	m.Two().ApplyDamage(1000)

	sink := &match.MemorySink{}
	r := match.NewRunner(m, sink, time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, r.Run(context.Background()))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, match.OutcomePlayer1, recs[0].Winner)
	res, ok := r.Result()
	assert.True(t, ok)
	assert.Equal(t, recs[0], res)
}

func TestRunner_StopRecordsPremature(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, match.DefaultConfig(), "Knight", "Mage")
	sink := &match.MemorySink{}
	r := match.NewRunner(m, sink, time.Millisecond, zaptest.NewLogger(t))
	_, ok := r.Result()
	assert.False(t, ok)

	done := make(chan error, 1)
	go func() { done <- r.Start() }()
	r.Stop()
	r.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop in time")
	}
	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Premature)
}

func TestRunner_TogglePauseAppliesAtTickBoundary(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, match.DefaultConfig(), "Knight", "Mage")
	r := match.NewRunner(m, nil, time.Millisecond, zaptest.NewLogger(t))
	r.TogglePause()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))
	assert.True(t, m.Paused())
	assert.Equal(t, 0, m.Ticks(), "a paused round never advances")
	rec, ok := r.Result()
	require.True(t, ok)
	assert.Equal(t, match.OutcomePremature, rec.Winner)
}
