// Package encoder pipes raw RGBA frames into an ffmpeg process.
package encoder

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/richinsley/liquidglass/options"
)

// Frame represents a single rendered video frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Encoder feeds frames to ffmpeg over a pipe. Frames are tightly packed RGBA with the bottom
// row first, as glReadPixels returns them; ffmpeg flips them.
type Encoder struct {
	frames chan *Frame
	done   chan error
	size   int
}

// Args builds the ffmpeg input and output arguments for opts.
func Args(opts *options.HostOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", *opts.Width, *opts.Height),
		"framerate": *opts.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}

	hevc := *opts.Codec == "hevc"
	switch runtime.GOOS {
	case "darwin":
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if hevc && strings.HasSuffix(*opts.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// Start launches ffmpeg writing to opts.OutputFile.
func Start(opts *options.HostOptions) (*Encoder, error) {
	if *opts.Width <= 0 || *opts.Height <= 0 || *opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid recording geometry %dx%d@%d", *opts.Width, *opts.Height, *opts.FPS)
	}
	e := &Encoder{
		frames: make(chan *Frame, 4),
		done:   make(chan error, 1),
		size:   *opts.Width * *opts.Height * 4,
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(opts)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(*opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if *opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*opts.FFMPEGPath)
	}
	log.Infof("encoding with %v", outputArgs["c:v"])

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	go func() {
		for frame := range e.frames {
			if _, err := pipeWriter.Write(frame.Pixels); err != nil {
				log.Errorf("writing frame %d to ffmpeg: %v", frame.PTS, err)
				break
			}
		}
		// Drain anything still queued so Encode never blocks after a write error.
		for range e.frames {
		}
		pipeWriter.Close()
		e.done <- <-errc
	}()
	return e, nil
}

// Encode queues one frame. The pixel slice is owned by the encoder afterwards.
func (e *Encoder) Encode(pixels []byte, pts int64) error {
	if len(pixels) != e.size {
		return fmt.Errorf("frame %d has %d bytes, want %d", pts, len(pixels), e.size)
	}
	e.frames <- &Frame{Pixels: pixels, PTS: pts}
	return nil
}

// Close flushes queued frames and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	close(e.frames)
	if err := <-e.done; err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
