// internal/common/onnx/runtime.go
package onnx

import (
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var initState struct {
	once sync.Once
	err  error
}

// Init probes the ONNX runtime shared library exactly once per process.
// A failed probe is remembered: every later caller sees the same error and
// constructs its component in the disabled variant.
func Init(libraryPath string) error {
	initState.once.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		initState.err = ort.InitializeEnvironment()
	})
	return initState.err
}
