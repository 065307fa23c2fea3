package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
)

func TestSentinelMatching(t *testing.T) {
	err := wferr.New(wferr.CodeNotRegistered, "geometry %q has no model matrix", "cube")

	require.ErrorIs(t, err, wferr.ErrNotRegistered)
	require.NotErrorIs(t, err, wferr.ErrBufferExhausted)

	wrapped := fmt.Errorf("frame: %w", err)
	require.ErrorIs(t, wrapped, wferr.ErrNotRegistered)
	require.True(t, wferr.Is(wrapped, wferr.CodeNotRegistered))
	require.Equal(t, wferr.CodeNotRegistered, wferr.GetCode(wrapped))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := wferr.Wrap(wferr.CodeInvalidConfig, cause, "read %s", "scene.toml")

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, wferr.ErrInvalidConfig)
	require.Equal(t, "INVALID_CONFIG: read scene.toml: disk on fire", err.Error())
	require.Equal(t, "read scene.toml: disk on fire", wferr.UserMessage(err))
}

func TestIsFindsInnerCode(t *testing.T) {
	inner := wferr.New(wferr.CodeCycleDetected, "a is an ancestor of b")
	outer := wferr.Wrap(wferr.CodeInvalidConfig, inner, "geometry %q", "b")

	require.True(t, wferr.Is(outer, wferr.CodeCycleDetected))
	require.True(t, wferr.Is(outer, wferr.CodeInvalidConfig))
	require.False(t, wferr.Is(outer, wferr.CodeInvalidRange))
	require.Equal(t, wferr.CodeInvalidConfig, wferr.GetCode(outer))
}

func TestGetCodeForeignError(t *testing.T) {
	require.Equal(t, wferr.Code(""), wferr.GetCode(errors.New("plain")))
	require.Equal(t, "plain", wferr.UserMessage(errors.New("plain")))
}
