package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"
)

// AdapterDiagnostics summarizes a selected wgpu adapter for logging,
// the detail a "why did it pick this GPU" bug report needs.
type AdapterDiagnostics struct {
	Name       string
	Vendor     string
	DeviceType types.DeviceType
	Backend    types.Backend
	Driver     string
}

func (d *AdapterDiagnostics) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.Name, d.DeviceType, d.Backend)
}

func diagnoseAdapter(adapterID core.AdapterID) (*AdapterDiagnostics, error) {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		return nil, fmt.Errorf("wgpu: get adapter info: %w", err)
	}
	return &AdapterDiagnostics{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}, nil
}

// logAdapterSelection emits a one-line Info record identifying the
// adapter Open chose, plus a Debug record with its driver string when
// present, matching this module's slog-over-stdlib-log convention.
func logAdapterSelection(adapterID core.AdapterID) {
	d, err := diagnoseAdapter(adapterID)
	if err != nil {
		slog.Warn("wgpu: adapter diagnostics unavailable", "error", err)
		return
	}
	slog.Info("wgpu: adapter selected", "description", d.String())
	if d.Driver != "" {
		slog.Debug("wgpu: adapter driver", "driver", d.Driver)
	}
}

// describeHostDevice logs the identity of a host-supplied device
// handle so a renderer bridging into a shared gpucontext.DeviceProvider
// (rather than opening its own adapter via Open) leaves the same
// diagnostic trail as the adapter-owned path above. handle's Device()
// accessor is the only surface this backend needs from it; everything
// else about the host's device stays opaque to this package.
func describeHostDevice(handle gpucontext.DeviceProvider) {
	if handle == nil {
		return
	}
	slog.Info("wgpu: bound to host-supplied device", "device", handle.Device())
}

func newLogicalDevice(adapterID core.AdapterID, label string) (core.DeviceID, error) {
	desc := &types.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	}
	deviceID, err := core.RequestDevice(adapterID, desc)
	if err != nil {
		return core.DeviceID{}, fmt.Errorf("wgpu: create device %q: %w", label, err)
	}
	return deviceID, nil
}

func deviceQueueOf(deviceID core.DeviceID) (core.QueueID, error) {
	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		return core.QueueID{}, fmt.Errorf("wgpu: get device queue: %w", err)
	}
	return queueID, nil
}

func dropDevice(deviceID core.DeviceID) error {
	if deviceID.IsZero() {
		return nil
	}
	if err := core.DeviceDrop(deviceID); err != nil {
		return fmt.Errorf("wgpu: release device: %w", err)
	}
	return nil
}

func dropAdapter(adapterID core.AdapterID) error {
	if adapterID.IsZero() {
		return nil
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		return fmt.Errorf("wgpu: release adapter: %w", err)
	}
	return nil
}

// CheckDeviceLimits logs a device's texture and buffer size limits at
// debug level. It does not itself reject a device; callers that need
// a hard minimum compare against the fields on gpucore.AdapterCapabilities
// instead.
func CheckDeviceLimits(deviceID core.DeviceID) error {
	limits, err := core.GetDeviceLimits(deviceID)
	if err != nil {
		return fmt.Errorf("wgpu: get device limits: %w", err)
	}
	slog.Debug("wgpu: device limits",
		"max_texture_dimension_2d", limits.MaxTextureDimension2D,
		"max_buffer_size", limits.MaxBufferSize,
	)
	return nil
}
