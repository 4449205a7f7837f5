// Package ui implements the pivot terminal interface on Bubble Tea.
//
// The screen has a file picker, an "Upload & Rotate" button and, once the
// backend has answered, a pane showing the rotated image drawn with
// half-block cells. All upload state lives in upload.Controller; the model
// only reads snapshots and starts upload cycles, so a press raises the
// loading flag in the same update that handled the key.
//
// Keys: tab switches between picker and button, u uploads from anywhere,
// s saves the result, T cycles themes, ? shows help and q quits.
package ui
