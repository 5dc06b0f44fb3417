//go:build js && wasm

package browser

import (
	"context"
	"fmt"
	"syscall/js"
)

// webStorage is a session.Scope over a Web Storage object.
type webStorage struct {
	name    string
	storage js.Value
}

func newWebStorage(name string) webStorage {
	return webStorage{name: name, storage: js.Global().Get(name)}
}

func (s webStorage) Get(_ context.Context, key string) (value string, ok bool, err error) {
	defer recoverJS(&err, s.name, "get")
	item := s.storage.Call("getItem", key)
	if item.IsNull() || item.IsUndefined() {
		return "", false, nil
	}
	return item.String(), true, nil
}

func (s webStorage) Set(_ context.Context, key string, value string) (err error) {
	defer recoverJS(&err, s.name, "set")
	s.storage.Call("setItem", key, value)
	return nil
}

func (s webStorage) Delete(_ context.Context, key string) (err error) {
	defer recoverJS(&err, s.name, "delete")
	s.storage.Call("removeItem", key)
	return nil
}

// recoverJS turns a thrown JS exception (quota, privacy mode) into err.
func recoverJS(err *error, scope string, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s %s: %v", scope, op, r)
	}
}
