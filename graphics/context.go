package graphics

// Context defines the interface for an OpenGL context the demo host renders into.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
}
