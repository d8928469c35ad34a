// Package auth keeps local user profiles with optional bcrypt passwords.
// Profiles are advisory and gate no file or window access.
package auth
