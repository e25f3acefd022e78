package encoder

import (
	"runtime"
	"testing"

	"github.com/richinsley/liquidglass/options"
)

func TestArgs(t *testing.T) {
	opts := options.Defaults()
	*opts.Width, *opts.Height, *opts.FPS = 640, 360, 30

	in, out := Args(opts)
	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" {
		t.Errorf("input format = %v/%v", in["f"], in["pix_fmt"])
	}
	if in["s"] != "640x360" {
		t.Errorf("input size = %v", in["s"])
	}
	if in["framerate"] != 30 {
		t.Errorf("framerate = %v", in["framerate"])
	}
	if out["vf"] != "vflip" {
		t.Errorf("rows must be flipped, vf = %v", out["vf"])
	}
	if _, ok := out["tag:v"]; ok {
		t.Error("h264 output should not carry an hvc1 tag")
	}

	want := "libx264"
	if runtime.GOOS == "darwin" {
		want = "h264_videotoolbox"
	}
	if out["c:v"] != want {
		t.Errorf("codec = %v, want %s", out["c:v"], want)
	}
}

func TestArgsHEVCInMP4(t *testing.T) {
	opts := options.Defaults()
	*opts.Codec = "hevc"
	*opts.OutputFile = "out.mp4"

	_, out := Args(opts)
	if out["tag:v"] != "hvc1" {
		t.Errorf("tag:v = %v, want hvc1", out["tag:v"])
	}
}

func TestStartRejectsEmptyGeometry(t *testing.T) {
	opts := options.Defaults()
	*opts.Width = 0
	if _, err := Start(opts); err == nil {
		t.Fatal("expected an error for a zero-width recording")
	}
}
