// Package game implements video game catalog management.
//
// Games are owned by exactly one user at a time. Mutations are owner-only,
// and deleting a game removes any trade offers that reference it on either
// side, so offers never dangle.
package game
