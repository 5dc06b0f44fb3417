//go:build js && wasm

// Package main is the browser auth bundle. It binds the login and
// registration forms of the page that loads it and then stays resident.
package main

import (
	"log"

	"github.com/louisbranch/easyvents/internal/browser"
)

func main() {
	log.SetPrefix("[AUTHWASM] ")
	app, err := browser.New(browser.ReadConfig())
	if err != nil {
		log.Fatalf("init auth bundle: %v", err)
	}
	app.Bind()
	select {}
}
