package options

// HostOptions carries the demo host's command-line settings. Fields are pointers so the CLI
// can bind flags to them directly.
type HostOptions struct {
	Mode       *string // "run" (window) or "record" (headless, encoded to OutputFile)
	Width      *int
	Height     *int
	Duration   *float64
	FPS        *int
	OutputFile *string
	Codec      *string // "h264" or "hevc"
	FFMPEGPath *string
	ConfigFile *string // optional YAML effect configuration; reloaded on R in run mode
	Wallpaper  *string // optional png/jpeg/webp/bmp backdrop instead of the animated one
	Verbose    *bool
}

// Defaults returns options populated with the host's default values.
func Defaults() *HostOptions {
	mode := "run"
	width, height := 1280, 720
	duration := 10.0
	fps := 60
	output := "liquidglass.mp4"
	codec := "h264"
	ffmpegPath := ""
	configFile := ""
	wallpaper := ""
	verbose := false
	return &HostOptions{
		Mode:       &mode,
		Width:      &width,
		Height:     &height,
		Duration:   &duration,
		FPS:        &fps,
		OutputFile: &output,
		Codec:      &codec,
		FFMPEGPath: &ffmpegPath,
		ConfigFile: &configFile,
		Wallpaper:  &wallpaper,
		Verbose:    &verbose,
	}
}

// TotalFrames is the number of frames a recording of Duration seconds at FPS holds.
func (o *HostOptions) TotalFrames() int {
	return int(*o.Duration * float64(*o.FPS))
}
