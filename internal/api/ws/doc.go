// Package ws provides a WebSocket channel for terminal commands.
//
// It carries the same command contract as POST /execute over one long-lived
// connection, which suits a browser terminal that sends many commands.
//
// Message Types (Client → Server):
//   - execute: {"type":"execute","id":"1","command":"ls"}
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - system: welcome frame with the connection ID
//   - result: {"type":"result","id":"1","output":...,"error":...,"ai_translation":...}
//   - pong: reply to ping
//   - error: malformed or unknown frame
//
// Example Usage:
//
//	handler := ws.NewHandler(dispatcher, metrics, logger)
//	router.GET("/stream", handler.HandleConnection)
package ws
