// Package client is a thin typed wrapper over the REST API, used by the
// CLI commands. It defines its own wire structs so CLI builds do not pull
// in the server packages.
package client
