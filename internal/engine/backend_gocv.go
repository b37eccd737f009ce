//go:build gocv
// +build gocv

package engine

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"github.com/inkbrush/cartoonize/internal/imaging"
)

// dnnBackend runs ONNX image-to-image style-transfer generators through
// OpenCV's DNN module. One model per neural style is expected under the
// model directory as <style>.onnx; styles without a model fall back to
// their classical recipes.
type dnnBackend struct {
	// OpenCV nets do not guarantee thread-safe Forward calls, so inference
	// is serialized through this mutex rather than sharing mutable net
	// state across conversions.
	mu   sync.Mutex
	nets map[string]gocv.Net
}

// NewBackend loads the available style models from modelDir.
func NewBackend(modelDir string) Backend {
	nets := make(map[string]gocv.Net)
	if modelDir != "" {
		for _, id := range neuralStyleIDs {
			path := filepath.Join(modelDir, id+".onnx")
			if _, err := os.Stat(path); err != nil {
				continue
			}
			net := gocv.ReadNetFromONNX(path)
			if net.Empty() {
				continue
			}
			nets[id] = net
		}
	}
	return &dnnBackend{nets: nets}
}

func (b *dnnBackend) Probe() Capability {
	if len(b.nets) == 0 {
		return Capability{
			Available: false,
			Reason:    "no style transfer models loaded",
		}
	}
	return Capability{Available: true, Device: "cpu"}
}

func (b *dnnBackend) Stylize(src *imaging.Buffer, styleID string) (*imaging.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	net, ok := b.nets[styleID]
	if !ok {
		return nil, fmt.Errorf("%w: no model for style %q", ErrBackendUnavailable, styleID)
	}

	mat, err := gocv.NewMatFromBytes(src.Height, src.Width, gocv.MatTypeCV8UC3, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("failed to build input mat: %w", err)
	}
	defer mat.Close()

	// The generators expect inputs normalized to [-1, 1]; swapRB converts
	// our RGB layout to the BGR channel order OpenCV blobs assume.
	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(src.Width, src.Height),
		gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	net.SetInput(blob, "")
	output := net.Forward("")
	defer output.Close()

	return blobToBuffer(output, src.Width, src.Height)
}

// blobToBuffer denormalizes an NCHW float blob back into the engine's
// packed RGB format. The learned output need not be bit-deterministic, but
// it must keep the input's shape; mismatched shapes fail the call.
func blobToBuffer(blob gocv.Mat, width, height int) (*imaging.Buffer, error) {
	data, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output blob: %w", err)
	}

	plane := width * height
	if len(data) < 3*plane {
		return nil, fmt.Errorf("unexpected output shape: got %d values, want %d", len(data), 3*plane)
	}

	out := imaging.New(width, height)
	for i := 0; i < plane; i++ {
		r := data[i]*127.5 + 127.5
		g := data[plane+i]*127.5 + 127.5
		b := data[2*plane+i]*127.5 + 127.5
		out.Pix[i*3] = clampFloat32(r)
		out.Pix[i*3+1] = clampFloat32(g)
		out.Pix[i*3+2] = clampFloat32(b)
	}
	return out, nil
}

func clampFloat32(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
