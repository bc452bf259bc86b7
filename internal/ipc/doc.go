// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management, request/response DTOs, and
// conversions between session models and lightweight wire representations.
// The server embeds the daemon while the client wraps each RPC in a typed
// method so CLI commands stay free of wire details.
//
// Reuse these types when adding new RPC endpoints to keep the protocol
// stable and compatible with existing command implementations.
package ipc
