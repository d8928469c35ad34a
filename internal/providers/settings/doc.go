// Package settings stores the desktop preferences: theme, accent color,
// wallpaper and layout density.
package settings
