/*
Package window manages the open windows of a desktop session.

# Model

A window is one running application instance: an app id, a title, a
stacking order, a geometry, and two independent flags (minimized,
maximized). All four flag combinations are legal. Windows live only as
long as the session; they are never persisted.

# Stacking

The registry keeps one monotonic counter. Launching or focusing a window
assigns it the next value, so it is always the strict frontmost window.
Closed windows never give their value back.

# Concurrency

The open windows are held as an immutable slice behind an atomic pointer.
Writers serialize on a mutex and publish a whole new slice per operation;
readers never lock and never see a half-applied change.

Every operation is total: an unknown id is reported through the boolean
result, never as an error.
*/
package window
