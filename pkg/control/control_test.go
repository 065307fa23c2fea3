package control_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tesserapp/wireframe/pkg/control"
	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

func TestNewRangeRejectsReversed(t *testing.T) {
	_, err := control.NewRange(1, -1)
	require.ErrorIs(t, err, wferr.ErrInvalidRange)

	r, err := control.NewRange(-1, 1)
	require.NoError(t, err)
	require.Equal(t, 2.0, r.Span())
}

func TestMapped(t *testing.T) {
	from := control.Range{Min: 0, Max: 100}
	to := control.Range{Min: -1, Max: 1}
	require.Equal(t, -1.0, control.Mapped(0, from, to))
	require.Equal(t, 0.0, control.Mapped(50, from, to))
	require.Equal(t, 1.0, control.Mapped(100, from, to))
	require.Equal(t, -1.0, control.Mapped(7, control.Range{Min: 3, Max: 3}, to))
}

func TestControllerNotifiesAndClamps(t *testing.T) {
	var seen []float64
	c, err := control.NewController("rotation x", -1, 1, 0, 0.25, func(v float64) { seen = append(seen, v) })
	require.NoError(t, err)
	require.Equal(t, []float64{0}, seen)

	c.Step(2)
	require.Equal(t, 0.5, c.Value())
	c.Step(10)
	require.Equal(t, 1.0, c.Value())
	c.Step(1) // already at max, no notification
	require.Equal(t, []float64{0, 0.5, 1}, seen)

	c.SetNormalized(0)
	require.Equal(t, -1.0, c.Value())
	require.Equal(t, 0.0, c.Normalized())
	require.Equal(t, "rotation x -1.00", c.String())
}

func TestControllerRejectsBadRange(t *testing.T) {
	_, err := control.NewController("q", 1, 0, 0.5, 0.1, nil)
	require.ErrorIs(t, err, wferr.ErrInvalidRange)

	_, err = control.NewController("q", 0, 1, 2, 0.1, nil)
	require.ErrorIs(t, err, wferr.ErrInvalidRange)
}

func TestDeltanizer(t *testing.T) {
	d := control.NewDeltanizer(1)
	require.Zero(t, d.Delta())

	d.Set(3)
	require.Equal(t, 2.0, d.Delta())
	d.Set(2.5)
	require.Equal(t, -0.5, d.Delta())

	d.Reset(7)
	require.Zero(t, d.Delta())
	require.Equal(t, 7.0, d.Value())
}

func TestSmoothed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := control.NewSmoothed(0, 100*time.Millisecond)
	require.Equal(t, 0.0, s.Value(start))

	s.Set(10, start)
	require.Equal(t, 0.0, s.Value(start))
	require.Equal(t, 5.0, s.Value(start.Add(50*time.Millisecond)))
	require.False(t, s.Settled(start.Add(50*time.Millisecond)))
	require.Equal(t, 10.0, s.Value(start.Add(200*time.Millisecond)))
	require.True(t, s.Settled(start.Add(100*time.Millisecond)))
}
