//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/louisbranch/easyvents/internal/auth/form"
)

// locationNavigator moves the page through window.location.
type locationNavigator struct {
	cfg Config
}

func (n locationNavigator) Navigate(path string) {
	js.Global().Get("location").Set("href", n.cfg.target(path))
}

func document() js.Value {
	return js.Global().Get("document")
}

func byID(id string) (js.Value, bool) {
	el := document().Call("getElementById", id)
	return el, el.Truthy()
}

// renderFeedback keeps at most one .form-message in the form, first in its
// children.
func renderFeedback(id form.ID, feedback form.Feedback) {
	el, ok := byID(string(id))
	if !ok {
		return
	}
	existing := el.Call("querySelectorAll", ".form-message")
	for i := existing.Length() - 1; i >= 0; i-- {
		existing.Index(i).Call("remove")
	}
	if !feedback.Visible() {
		return
	}
	message := document().Call("createElement", "div")
	message.Set("className", messageClass(feedback.Kind))
	message.Set("textContent", feedback.Text)
	if feedback.Kind == form.KindError {
		message.Call("setAttribute", "role", "alert")
	} else {
		message.Call("setAttribute", "role", "status")
	}
	el.Call("insertBefore", message, el.Get("firstChild"))
}

func inputValue(id string) string {
	el, ok := byID(id)
	if !ok {
		return ""
	}
	return el.Get("value").String()
}

func inputChecked(id string) bool {
	el, ok := byID(id)
	if !ok {
		return false
	}
	return el.Get("checked").Truthy()
}
