// Package websocket streams game snapshots to browser or script clients and
// accepts steering commands from them.
//
// A single Hub serves one running game. After every tick the caller hands
// the hub a snapshot; the hub encodes it once and fans it out to every
// connected client.
//
// Message protocol (JSON text frames):
//
//	server -> client  {"event":"welcome","client_id":"<uuid>"}
//	server -> client  {"event":"snapshot","data":{...}}
//	client -> server  {"heading":"up"}
//
// Headings are "up", "down", "left" and "right". A heading that reverses
// the snake is ignored by the game, not by the hub.
//
// Usage:
//
//	hub := websocket.NewHub(game, logger)
//	go hub.Run(ctx)
//	http.Handle("/ws", hub)
//	...
//	hub.Broadcast(game.Snapshot())
package websocket
