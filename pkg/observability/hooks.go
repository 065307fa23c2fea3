// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about frames and scene membership.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFrameHooks(&myFrameHooks{})
//	    observability.SetSceneHooks(&mySceneHooks{})
//	    // ... run application
//	}
//
// The scene manager calls hooks to emit events:
//
//	observability.Frame().OnFrameStart()
//	// ... compute matrices, project, rewrite buffers ...
//	observability.Frame().OnFrameComplete(vertexCount, rewritten, duration, err)
//
// Hooks are called with the scene lock held and must not call back into the
// scene.
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Frame Hooks
// =============================================================================

// FrameHooks receives events from frame production.
type FrameHooks interface {
	// OnFrameStart records the start of a frame.
	OnFrameStart()

	// OnFrameComplete records a finished frame. rewritten reports whether the
	// vertex buffers were rebuilt or reused.
	OnFrameComplete(vertices int, rewritten bool, duration time.Duration, err error)
}

// =============================================================================
// Scene Hooks
// =============================================================================

// SceneHooks receives events about scene membership.
type SceneHooks interface {
	// OnRegister records a geometry joining the scene at a model-matrix slot.
	OnRegister(name string, slot int)

	// OnUnregister records a geometry leaving the scene.
	OnUnregister(name string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFrameHooks is a no-op implementation of FrameHooks.
type NoopFrameHooks struct{}

func (NoopFrameHooks) OnFrameStart()                                   {}
func (NoopFrameHooks) OnFrameComplete(int, bool, time.Duration, error) {}

// NoopSceneHooks is a no-op implementation of SceneHooks.
type NoopSceneHooks struct{}

func (NoopSceneHooks) OnRegister(string, int) {}
func (NoopSceneHooks) OnUnregister(string)    {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	frameHooks FrameHooks = NoopFrameHooks{}
	sceneHooks SceneHooks = NoopSceneHooks{}
	hooksMu    sync.RWMutex
)

// SetFrameHooks registers custom frame hooks.
// This should be called once at application startup before any frames are produced.
func SetFrameHooks(h FrameHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		frameHooks = h
	}
}

// SetSceneHooks registers custom scene hooks.
// This should be called once at application startup before any geometry is registered.
func SetSceneHooks(h SceneHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sceneHooks = h
	}
}

// Frame returns the registered frame hooks.
func Frame() FrameHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return frameHooks
}

// Scene returns the registered scene hooks.
func Scene() SceneHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sceneHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	frameHooks = NoopFrameHooks{}
	sceneHooks = NoopSceneHooks{}
}
