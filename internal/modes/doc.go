// Package modes coordinates the picker's two presentation states, camera
// and library.
//
// The Coordinator owns which surface is live, stops the old surface before
// starting the new one, and recomputes the action bar whenever the mode or
// the selection count changes. Closing is terminal: in-flight exports are
// cancelled through the hub before the cancelled completion is emitted.
package modes
