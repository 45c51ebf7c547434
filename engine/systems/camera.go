package systems

import (
	"fmt"

	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/renderer/components"
)

// The camera system configuration.
type CameraSystemConfig struct {
	// The maximum number of cameras that can be managed by the system.
	MaxCameraCount uint16
}

// CameraSystem hands out named, reference-counted cameras plus a default
// camera that always exists as a fallback.
type CameraSystem struct {
	Config *CameraSystemConfig
	Lookup map[string]*components.CameraLookup
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	cs := &CameraSystem{
		Config: config,
		Lookup: make(map[string]*components.CameraLookup, config.MaxCameraCount),
	}
	cs.DefaultCamera = components.NewCamera()
	return cs, nil
}

func (cs *CameraSystem) Shutdown() error {
	return nil
}

// GetDefault returns the fallback camera.
func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}

// Acquire returns the camera with the given name, creating it if needed.
// The internal reference counter is incremented.
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}

	lookup, ok := cs.Lookup[name]
	if !ok {
		if len(cs.Lookup) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more. Null returned")
			core.LogError(err.Error())
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		lookup = &components.CameraLookup{
			ID:     uint16(len(cs.Lookup)),
			Camera: components.NewCamera(),
		}
		cs.Lookup[name] = lookup
	}

	lookup.ReferenceCount++
	return lookup.Camera, nil
}

// Release decrements the named camera's reference counter. When it
// reaches zero the camera is reset and its name becomes reusable.
func (cs *CameraSystem) Release(name string) error {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogWarn("cannot release the default camera")
		return nil
	}
	lookup, ok := cs.Lookup[name]
	if !ok {
		return fmt.Errorf("release: camera %q not found", name)
	}

	lookup.ReferenceCount--
	if lookup.ReferenceCount == 0 {
		lookup.Camera.Reset()
		delete(cs.Lookup, name)
	}
	return nil
}
