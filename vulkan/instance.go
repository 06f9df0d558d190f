package vulkan

/*
#cgo windows LDFLAGS: -lvulkan-1
#cgo linux LDFLAGS: -lvulkan
#include <vulkan/vulkan.h>
#include <stdlib.h>
#include <string.h>
#include <stdio.h>

VKAPI_ATTR VkBool32 VKAPI_CALL debugCallback(
    VkDebugUtilsMessageSeverityFlagBitsEXT messageSeverity,
    VkDebugUtilsMessageTypeFlagsEXT messageType,
    const VkDebugUtilsMessengerCallbackDataEXT* pCallbackData,
    void* pUserData) {

    const char* severity = messageSeverity >= VK_DEBUG_UTILS_MESSAGE_SEVERITY_ERROR_BIT_EXT
        ? "ERROR" : "WARNING";
    fprintf(stderr, "[VULKAN %s] %s\n", severity, pCallbackData->pMessage);
    return VK_FALSE;
}

VkResult CreateDebugUtilsMessengerEXT(VkInstance instance, const VkDebugUtilsMessengerCreateInfoEXT* pCreateInfo, const VkAllocationCallbacks* pAllocator, VkDebugUtilsMessengerEXT* pDebugMessenger) {
    PFN_vkCreateDebugUtilsMessengerEXT func = (PFN_vkCreateDebugUtilsMessengerEXT)vkGetInstanceProcAddr(instance, "vkCreateDebugUtilsMessengerEXT");
    if (func == NULL) {
        return VK_ERROR_EXTENSION_NOT_PRESENT;
    }
    return func(instance, pCreateInfo, pAllocator, pDebugMessenger);
}

void DestroyDebugUtilsMessengerEXT(VkInstance instance, VkDebugUtilsMessengerEXT debugMessenger, const VkAllocationCallbacks* pAllocator) {
    PFN_vkDestroyDebugUtilsMessengerEXT func = (PFN_vkDestroyDebugUtilsMessengerEXT)vkGetInstanceProcAddr(instance, "vkDestroyDebugUtilsMessengerEXT");
    if (func != NULL) {
        func(instance, debugMessenger, pAllocator);
    }
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

type Instance struct {
	Handle           C.VkInstance
	DebugMessenger   C.VkDebugUtilsMessengerEXT
	EnableValidation bool
}

type InstanceConfig struct {
	AppName            string
	EngineName         string
	AppVersion         uint32
	EngineVersion      uint32
	EnableValidation   bool
	RequiredExtensions []string
}

func DefaultInstanceConfig() InstanceConfig {
	return InstanceConfig{
		AppName:          "Conditional Rendering Demo",
		EngineName:       "cond-render",
		AppVersion:       VK_MAKE_VERSION(1, 0, 0),
		EngineVersion:    VK_MAKE_VERSION(1, 0, 0),
		EnableValidation: true,
	}
}

// cMalloc allocates n bytes of C memory. Structs and arrays referenced
// from a create-info chain live in C memory: cgo forbids Go pointers
// nested inside memory handed to a C call.
func cMalloc(n uintptr) unsafe.Pointer {
	return C.malloc(C.size_t(n))
}

func NewInstance(config InstanceConfig) (*Instance, error) {
	appName := C.CString(config.AppName)
	defer C.free(unsafe.Pointer(appName))

	engineName := C.CString(config.EngineName)
	defer C.free(unsafe.Pointer(engineName))

	appInfo := (*C.VkApplicationInfo)(cMalloc(unsafe.Sizeof(C.VkApplicationInfo{})))
	defer C.free(unsafe.Pointer(appInfo))
	*appInfo = C.VkApplicationInfo{
		sType:              C.VK_STRUCTURE_TYPE_APPLICATION_INFO,
		pApplicationName:   appName,
		applicationVersion: C.uint32_t(config.AppVersion),
		pEngineName:        engineName,
		engineVersion:      C.uint32_t(config.EngineVersion),
		apiVersion:         C.VK_API_VERSION_1_2,
	}

	// Window-system extensions reported by GLFW, plus debug utils when
	// validating.
	extensionNames := config.RequiredExtensions
	if config.EnableValidation {
		extensionNames = append(extensionNames, "VK_EXT_debug_utils")
	}

	extensions := (**C.char)(cMalloc(uintptr(len(extensionNames)) * unsafe.Sizeof((*C.char)(nil))))
	defer C.free(unsafe.Pointer(extensions))
	extSlice := unsafe.Slice(extensions, len(extensionNames))
	for i, name := range extensionNames {
		extSlice[i] = C.CString(name)
		defer C.free(unsafe.Pointer(extSlice[i]))
	}

	createInfo := C.VkInstanceCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_INSTANCE_CREATE_INFO,
		pApplicationInfo:        appInfo,
		enabledExtensionCount:   C.uint32_t(len(extensionNames)),
		ppEnabledExtensionNames: extensions,
	}

	var debugCreateInfo *C.VkDebugUtilsMessengerCreateInfoEXT
	if config.EnableValidation {
		if !checkValidationLayerSupport() {
			return nil, fmt.Errorf("validation layers requested but not available")
		}

		validationLayer := C.CString("VK_LAYER_KHRONOS_validation")
		defer C.free(unsafe.Pointer(validationLayer))

		layers := (**C.char)(cMalloc(unsafe.Sizeof(validationLayer)))
		defer C.free(unsafe.Pointer(layers))
		*layers = validationLayer

		createInfo.enabledLayerCount = 1
		createInfo.ppEnabledLayerNames = layers

		debugCreateInfo = (*C.VkDebugUtilsMessengerCreateInfoEXT)(cMalloc(unsafe.Sizeof(C.VkDebugUtilsMessengerCreateInfoEXT{})))
		defer C.free(unsafe.Pointer(debugCreateInfo))
		*debugCreateInfo = C.VkDebugUtilsMessengerCreateInfoEXT{
			sType:           C.VK_STRUCTURE_TYPE_DEBUG_UTILS_MESSENGER_CREATE_INFO_EXT,
			messageSeverity: C.VK_DEBUG_UTILS_MESSAGE_SEVERITY_WARNING_BIT_EXT | C.VK_DEBUG_UTILS_MESSAGE_SEVERITY_ERROR_BIT_EXT,
			messageType:     C.VK_DEBUG_UTILS_MESSAGE_TYPE_GENERAL_BIT_EXT | C.VK_DEBUG_UTILS_MESSAGE_TYPE_VALIDATION_BIT_EXT | C.VK_DEBUG_UTILS_MESSAGE_TYPE_PERFORMANCE_BIT_EXT,
			pfnUserCallback: (C.PFN_vkDebugUtilsMessengerCallbackEXT)(C.debugCallback),
		}
		// Chained so instance creation and destruction are covered too.
		createInfo.pNext = unsafe.Pointer(debugCreateInfo)
	}

	inst := &Instance{EnableValidation: config.EnableValidation}
	result := C.vkCreateInstance(&createInfo, nil, &inst.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create Vulkan instance: %d", result)
	}

	if config.EnableValidation {
		result = C.CreateDebugUtilsMessengerEXT(inst.Handle, debugCreateInfo, nil, &inst.DebugMessenger)
		if result != C.VK_SUCCESS {
			fmt.Printf("Warning: failed to set up debug messenger: %d\n", result)
		}
	}

	return inst, nil
}

func (i *Instance) Destroy() {
	if i.EnableValidation && i.DebugMessenger != nil {
		C.DestroyDebugUtilsMessengerEXT(i.Handle, i.DebugMessenger, nil)
	}
	C.vkDestroyInstance(i.Handle, nil)
}

func checkValidationLayerSupport() bool {
	var layerCount C.uint32_t
	C.vkEnumerateInstanceLayerProperties(&layerCount, nil)
	if layerCount == 0 {
		return false
	}

	availableLayers := make([]C.VkLayerProperties, layerCount)
	C.vkEnumerateInstanceLayerProperties(&layerCount, &availableLayers[0])

	layerName := C.CString("VK_LAYER_KHRONOS_validation")
	defer C.free(unsafe.Pointer(layerName))

	for _, layer := range availableLayers {
		if C.strcmp(&layer.layerName[0], layerName) == 0 {
			return true
		}
	}

	return false
}

func VK_MAKE_VERSION(major, minor, patch uint32) uint32 {
	return (major << 22) | (minor << 12) | patch
}
