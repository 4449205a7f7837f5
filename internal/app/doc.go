// Package app is the composition root for pivot.
//
// Run loads ~/.config/pivot/config.toml and the saved preferences, opens the
// diagnostic log, builds a rotate.Client for the fixed backend endpoint and
// an upload.Controller around it, then hands everything to the UI and blocks
// until the user quits or the context is cancelled.
//
// Errors loading configuration, opening the log or reading a file passed on
// the command line are returned before the terminal is taken over. Once the
// UI runs, upload failures never surface here; the controller logs them and
// the screen simply stays as it was.
package app
