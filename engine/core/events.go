package core

type EventType int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventType = 0x01
	// Keyboard key pressed.
	EVENT_CODE_KEY_PRESSED EventType = 0x02
	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED EventType = 0x03
	// Resized/resolution changed from the OS.
	EVENT_CODE_RESIZED EventType = 0x08
	// A watched shader source file changed on disk.
	EVENT_CODE_SHADER_CHANGED EventType = 0x09
)

type EventContext struct {
	Type EventType
	Data interface{}
}

type KeyEvent struct {
	KeyCode int
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type ShaderEvent struct {
	Name string
}

type FnOnEvent func(context EventContext)

type eventSystemState struct {
	registered map[EventType][]FnOnEvent
}

var eventState *eventSystemState = nil

func EventSystemInitialize() bool {
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{
		registered: make(map[EventType][]FnOnEvent),
	}
	return true
}

func EventSystemShutdown() error {
	eventState = nil
	return nil
}

// EventRegister adds a listener for the given event code. Listeners are
// invoked synchronously, in registration order, on the firing goroutine.
func EventRegister(code EventType, onEvent FnOnEvent) bool {
	if eventState == nil {
		return false
	}
	eventState.registered[code] = append(eventState.registered[code], onEvent)
	return true
}

func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	listeners, ok := eventState.registered[context.Type]
	if !ok {
		return false
	}
	for _, l := range listeners {
		l(context)
	}
	return true
}
