// Package auth drives authentication against the homework API.
//
// Manager is a small state machine:
//
//	Unauthenticated --Login--> Authenticating --ok--> Authenticated
//	                                |  \--409--> ConflictPending
//	                                \--error--> Unauthenticated
//	ConflictPending --ResolveConflict ok--> Authenticated
//	ConflictPending --CancelConflict--> Unauthenticated
//	Authenticated --Logout / 401--> Unauthenticated
//
// A 409 on login means the account already holds its maximum number of
// sessions. The manager keeps the credentials in memory only while the
// conflict is pending, so the caller can pick a session to evict
// without asking for the password again.
package auth
