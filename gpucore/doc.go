// Package gpucore defines the GPU device capability surface the
// tiling backends record commands against: typed buffers, 2D textures
// with explicit layout transitions, compute and render pipeline
// compilation, bind groups, and command encoders, plus a pipeline
// cache that avoids recompiling the same shader+layout combination
// every frame.
//
// gpucore itself has no GPU-specific data layouts for path, tile, or
// fill records — those belong to the backend that interprets them
// (backend/gputiler for backend B's compute passes). This package only
// describes the device a backend records work against, the way a real
// graphics API's core types are shared across every workload built on
// top of it.
//
// Device is implemented for production use by backend/wgpu, which
// wraps github.com/gogpu/wgpu and github.com/gogpu/naga. Tests and
// CPU-only builds (backend/cputiler, which never touches a GPU device
// at all) do not need a Device implementation.
//
// A typical backend-B frame against a Device looks like:
//
//	enc := device.CreateCommandEncoder("frame")
//	cp := enc.BeginComputePass("dice")
//	cp.SetPipeline(dicePipeline)
//	cp.SetBindGroup(0, diceBindGroup)
//	cp.Dispatch(workgroups, 1, 1)
//	cp.End()
//	// ...bound, bin, propagate, fill, sort passes...
//	if err := device.SubmitAndWait(enc); err != nil {
//	    return err
//	}
//	counts, err := device.ReadBuffer(indirectParamsBuffer, 0, indirectParamsSize)
//	// inspect counts for dice/bin overflow, retry with doubled buffers if needed
package gpucore
