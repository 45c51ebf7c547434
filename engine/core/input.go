package core

// Key code definitions, matching the platform layer's key mapping.
type KeyCode int

const (
	KEY_SPACE  KeyCode = 32
	KEY_A      KeyCode = 65
	KEY_D      KeyCode = 68
	KEY_R      KeyCode = 82
	KEY_S      KeyCode = 83
	KEY_W      KeyCode = 87
	KEY_ESCAPE KeyCode = 256
	KEY_LSHIFT KeyCode = 340
)
