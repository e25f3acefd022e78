package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/richinsley/liquidglass/config"
	"github.com/richinsley/liquidglass/encoder"
	"github.com/richinsley/liquidglass/glfwcontext"
	"github.com/richinsley/liquidglass/headless"
	"github.com/richinsley/liquidglass/options"
	"github.com/richinsley/liquidglass/sandbox"
)

func addSizeFlags(cmd *cobra.Command, opts *options.HostOptions) {
	cmd.Flags().IntVar(opts.Width, "width", *opts.Width, "Width of the output")
	cmd.Flags().IntVar(opts.Height, "height", *opts.Height, "Height of the output")
	cmd.Flags().StringVar(opts.Wallpaper, "wallpaper", *opts.Wallpaper, "Backdrop image (png, jpeg, webp or bmp)")
}

func newRunCommand(opts *options.HostOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window with glass surfaces over an animated backdrop",
		RunE: func(cmd *cobra.Command, args []string) error {
			*opts.Mode = "run"
			return runInteractive(opts)
		},
	}
	addSizeFlags(cmd, opts)
	return cmd
}

func newRecordCommand(opts *options.HostOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Render the sandbox headless and encode it with ffmpeg",
		RunE: func(cmd *cobra.Command, args []string) error {
			*opts.Mode = "record"
			return runRecord(opts)
		},
	}
	addSizeFlags(cmd, opts)
	cmd.Flags().Float64Var(opts.Duration, "duration", *opts.Duration, "Duration to record in seconds")
	cmd.Flags().IntVar(opts.FPS, "fps", *opts.FPS, "Frames per second for recording")
	cmd.Flags().StringVarP(opts.OutputFile, "output", "o", *opts.OutputFile, "Output file name for recording")
	cmd.Flags().StringVar(opts.Codec, "codec", *opts.Codec, "Video codec (h264 or hevc)")
	cmd.Flags().StringVar(opts.FFMPEGPath, "ffmpeg", *opts.FFMPEGPath, "Path to ffmpeg executable")
	return cmd
}

func runInteractive(opts *options.HostOptions) error {
	store, err := config.NewStore(*opts.ConfigFile)
	if err != nil {
		return err
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts, "liquidglass", true)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	host, err := sandbox.NewHost(ctx, opts, store)
	if err != nil {
		return err
	}
	bindKeys(ctx, host)

	log.Info("Starting interactive render loop (R reload, E toggle, W workspace, L/C layer patterns, X close terminal)")
	host.Run()
	return host.Shutdown()
}

func bindKeys(ctx *glfwcontext.Context, host *sandbox.Host) {
	ctx.RegisterKeyCallback(glfw.KeyR, func() {
		if err := host.Store().Reload(); err == nil {
			log.Info("configuration reloaded")
		}
	})
	ctx.RegisterKeyCallback(glfw.KeyE, func() {
		on := !host.Store().Params().Enabled
		host.Store().SetEnabled(on)
		log.Infof("liquid glass enabled: %v", on)
	})
	ctx.RegisterKeyCallback(glfw.KeyW, func() {
		host.Scene().SwitchWorkspace(host.Now())
		host.Glass().WorkspaceChanged()
	})
	ctx.RegisterKeyCallback(glfw.KeyL, func() {
		host.Glass().AddPattern("waybar")
		host.Glass().AttachAll(host.Scene().Handles())
	})
	ctx.RegisterKeyCallback(glfw.KeyC, func() {
		host.Glass().ClearPatterns()
		log.Info("layer patterns cleared")
	})
	ctx.RegisterKeyCallback(glfw.KeyX, func() {
		host.CloseWindow("terminal")
	})
}

func runRecord(opts *options.HostOptions) error {
	store, err := config.NewStore(*opts.ConfigFile)
	if err != nil {
		return err
	}

	ctx, err := headless.NewHeadless(*opts.Width, *opts.Height)
	if err != nil {
		return fmt.Errorf("failed to create headless context: %w", err)
	}
	defer ctx.Shutdown()

	host, err := sandbox.NewHost(ctx, opts, store)
	if err != nil {
		return err
	}

	enc, err := encoder.Start(opts)
	if err != nil {
		host.Shutdown()
		return err
	}

	log.Infof("Recording %d frames to %s", opts.TotalFrames(), *opts.OutputFile)
	recErr := host.Record(enc)
	encErr := enc.Close()
	shutdownErr := host.Shutdown()
	if recErr != nil {
		return recErr
	}
	if encErr != nil {
		return encErr
	}
	if shutdownErr != nil {
		return shutdownErr
	}
	log.Infof("Successfully rendered to %s", *opts.OutputFile)
	return nil
}
