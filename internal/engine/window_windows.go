//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
)

const (
	DWMWA_USE_IMMERSIVE_DARK_MODE = 20
	DWMWA_BORDER_COLOR            = 34
	DWMWA_CAPTION_COLOR           = 35
)

func setWindowAttribute(hwnd unsafe.Pointer, attr uintptr, value uint32) {
	procDwmSetWindowAttribute.Call(
		uintptr(hwnd),
		attr,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
}

func tintTitleBar(window *glfw.Window, c mgl32.Vec3) {
	if window == nil {
		return
	}
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}

	var dark uint32
	if luminance(c) < 0.5 {
		dark = 1
	}
	setWindowAttribute(unsafe.Pointer(hwnd), DWMWA_USE_IMMERSIVE_DARK_MODE, dark)
	setWindowAttribute(unsafe.Pointer(hwnd), DWMWA_BORDER_COLOR, colorRef(c))
	setWindowAttribute(unsafe.Pointer(hwnd), DWMWA_CAPTION_COLOR, colorRef(c))
}
