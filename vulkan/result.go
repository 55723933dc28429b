package vulkan

import "fmt"

// Result is a VkResult code.
type Result int32

const (
	Success                          Result = 0
	NotReady                         Result = 1
	Timeout                          Result = 2
	EventSet                         Result = 3
	EventReset                       Result = 4
	Incomplete                       Result = 5
	ErrorOutOfHostMemory             Result = -1
	ErrorOutOfDeviceMemory           Result = -2
	ErrorInitializationFailed        Result = -3
	ErrorDeviceLost                  Result = -4
	ErrorMemoryMapFailed             Result = -5
	ErrorLayerNotPresent             Result = -6
	ErrorExtensionNotPresent         Result = -7
	ErrorFeatureNotPresent           Result = -8
	ErrorIncompatibleDriver          Result = -9
	ErrorTooManyObjects              Result = -10
	ErrorFormatNotSupported          Result = -11
	ErrorFragmentedPool              Result = -12
	ErrorUnknown                     Result = -13
	ErrorSurfaceLostKHR              Result = -1000000000
	SuboptimalKHR                    Result = 1000001003
	ErrorOutOfDateKHR                Result = -1000001004
	ErrorValidationFailedEXT         Result = -1000011001
	ErrorIncompatibleShaderBinaryEXT Result = 1000482000
)

var resultNames = map[Result]string{
	Success:                          "VK_SUCCESS",
	NotReady:                         "VK_NOT_READY",
	Timeout:                          "VK_TIMEOUT",
	EventSet:                         "VK_EVENT_SET",
	EventReset:                       "VK_EVENT_RESET",
	Incomplete:                       "VK_INCOMPLETE",
	ErrorOutOfHostMemory:             "VK_ERROR_OUT_OF_HOST_MEMORY",
	ErrorOutOfDeviceMemory:           "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	ErrorInitializationFailed:        "VK_ERROR_INITIALIZATION_FAILED",
	ErrorDeviceLost:                  "VK_ERROR_DEVICE_LOST",
	ErrorMemoryMapFailed:             "VK_ERROR_MEMORY_MAP_FAILED",
	ErrorLayerNotPresent:             "VK_ERROR_LAYER_NOT_PRESENT",
	ErrorExtensionNotPresent:         "VK_ERROR_EXTENSION_NOT_PRESENT",
	ErrorFeatureNotPresent:           "VK_ERROR_FEATURE_NOT_PRESENT",
	ErrorIncompatibleDriver:          "VK_ERROR_INCOMPATIBLE_DRIVER",
	ErrorTooManyObjects:              "VK_ERROR_TOO_MANY_OBJECTS",
	ErrorFormatNotSupported:          "VK_ERROR_FORMAT_NOT_SUPPORTED",
	ErrorFragmentedPool:              "VK_ERROR_FRAGMENTED_POOL",
	ErrorUnknown:                     "VK_ERROR_UNKNOWN",
	ErrorSurfaceLostKHR:              "VK_ERROR_SURFACE_LOST_KHR",
	SuboptimalKHR:                    "VK_SUBOPTIMAL_KHR",
	ErrorOutOfDateKHR:                "VK_ERROR_OUT_OF_DATE_KHR",
	ErrorValidationFailedEXT:         "VK_ERROR_VALIDATION_FAILED_EXT",
	ErrorIncompatibleShaderBinaryEXT: "VK_ERROR_INCOMPATIBLE_SHADER_BINARY_EXT",
}

var resultsByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, n := range resultNames {
		m[n] = r
	}
	return m
}()

func (r Result) String() string {
	if n, ok := resultNames[r]; ok {
		return n
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// IsError reports whether r is a negative error code.
func (r Result) IsError() bool {
	return r < 0
}

// ParseResult returns the code for a VK_* name.
func ParseResult(name string) (Result, bool) {
	r, ok := resultsByName[name]
	return r, ok
}

// PipelineCreateDerivativeBit is VK_PIPELINE_CREATE_DERIVATIVE_BIT.
const PipelineCreateDerivativeBit = 0x4
