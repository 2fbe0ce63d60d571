// Package trade implements the trade offer lifecycle.
//
// The service layer owns all business rules for creating and resolving
// offers: referenced games must exist, a game cannot be traded for itself,
// both sides of a trade must have different owners, and at most one pending
// offer may exist per ordered (offered, requested) game pair. Status moves
// along a fixed state machine, from pending to exactly one of accepted,
// rejected or cancelled. The check-then-set is atomic at the repository
// level so concurrent resolutions cannot both win.
//
// The service depends on repository interfaces defined in this package and
// should never import from api/. Repository implementations live in
// repository/postgres/.
package trade
