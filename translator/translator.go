// Package translator converts WebGL2 fragment kernels into the dialect of the current GL
// context and reports how uniform names were rewritten.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
		if initErr != nil {
			initErr = fmt.Errorf("create shader translator: %w", initErr)
		}
	})
	return translator, initErr
}

// Translated is a fragment shader ready for the current context.
type Translated struct {
	Code string
	// Names maps each uniform's source name to the name in Code.
	Names map[string]string
}

// Fragment translates a WebGL2 fragment shader to GLSL 4.10, or to ESSL when gles is set.
func Fragment(src string, gles bool) (Translated, error) {
	t, err := GetTranslator()
	if err != nil {
		return Translated{}, err
	}

	outputFormat := gst.OutputFormatGLSL410
	if gles {
		outputFormat = gst.OutputFormatESSL
	}
	fs, err := t.TranslateShader(src, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return Translated{}, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	names := make(map[string]string, len(fs.Variables))
	for name, v := range fs.Variables {
		names[name] = v.MappedName
	}
	return Translated{Code: fs.Code, Names: names}, nil
}
