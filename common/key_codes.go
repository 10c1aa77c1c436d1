package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyT     = 84  // T key (ASCII), toggles triangulated/dual
	KeyO     = 79  // O key (ASCII), toggles polygon ordering
	KeySpace = 32  // Spacebar (ASCII), pauses rotation
	KeyEsc   = 256 // Escape key (GLFW)

	KeyEqual = 61 // = key (ASCII), one more subdivision
	KeyMinus = 45 // - key (ASCII), one less subdivision
	KeyR     = 82 // R key (ASCII), resets the orbit camera

	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)

// Key actions, matching glfw.Action.
const (
	ActionRelease = 0
	ActionPress   = 1
	ActionRepeat  = 2
)
