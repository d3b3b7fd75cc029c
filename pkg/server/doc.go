// Package server implements the history sync bridge: an HTTP server
// that hands out the client shell for every application path and
// mirrors each connected browser's history over a WebSocket.
//
// Every connection gets a Session with its own single-threaded event
// loop. The session owns a server-side history mirror that implements
// history.History, so an application router mounts on it exactly as it
// would on any other location source: client frames (hello, navigate,
// popstate) move the mirror and flow out through its listeners, and
// server-side pushes flow back to the browser as push/replace frames.
//
// Shell serving falls back to the shell document for any path that is
// not a static asset, which is what a client-routed application needs
// from its host (the history API fallback).
package server
