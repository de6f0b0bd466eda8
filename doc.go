// Package auth implements stateless authentication for the Shop Stack web
// application: bcrypt password hashing, JWT session tokens carried in a
// protected cookie, and a self-invalidating password recovery flow whose
// reset tokens are signed with a key derived from the user's current
// password hash. Changing the password changes the verification key, so a
// reset link can only be consumed once without any server-side revocation
// state.
//
// The package exposes the building blocks (TokenService, ResetTokenService,
// Hasher, CookieTransport, Users store) plus an Auther that sequences the
// register, login, logout, forgot-password and reset-password operations,
// and an AuthController that mounts them on a fiber router.
package auth
