// Package user implements account management: registration, profile
// updates, password changes and deletion.
//
// Passwords are stored as bcrypt hashes. A successful password change emits
// a password_changed event so the notification worker can mail the account
// owner; the event is best-effort and never blocks the change itself.
package user
