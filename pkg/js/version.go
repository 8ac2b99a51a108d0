package js

import "runtime/debug"

const enginePath = "github.com/dop251/goja"

// EngineVersion returns the module version of the JavaScript engine linked
// into the binary, or "unknown" if it cannot be determined.
func EngineVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != enginePath {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
