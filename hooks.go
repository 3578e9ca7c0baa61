//go:build linux || darwin

package eventmux

// testHooks provides injection points for deterministic tests. All fields
// are optional; nil hooks are skipped.
type testHooks struct {
	// allocNode replaces the event node allocator.
	allocNode func() (*node, error)
	// helperWoken runs on the helper goroutine immediately after it accepts
	// a wake signal, before the armed request is read.
	helperWoken func()
	// beforeSelect runs on the helper goroutine immediately before the
	// readiness syscall.
	beforeSelect func()
}

func (h *testHooks) onHelperWoken() {
	if h != nil && h.helperWoken != nil {
		h.helperWoken()
	}
}

func (h *testHooks) onBeforeSelect() {
	if h != nil && h.beforeSelect != nil {
		h.beforeSelect()
	}
}
