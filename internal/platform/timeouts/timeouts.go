// Package timeouts holds the HTTP limits shared by every server in the module.
package timeouts

import "time"

// ReadHeader limits how long a server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long a server drains in-flight requests.
const Shutdown = 5 * time.Second

// Janitor is the interval between expired session sweeps.
const Janitor = time.Hour

// BackendRequest limits a single call from a server to the REST backend.
const BackendRequest = 10 * time.Second
