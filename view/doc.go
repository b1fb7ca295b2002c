// Package view projects the store onto a screen model and draws it with pterm.
//
// Project is pure: calling it twice on the same state yields equal models,
// and Render of equal models yields equal output. Nothing here writes to the
// store or the terminal.
package view
