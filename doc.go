// Package members provides session state and multi-provider identity
// linking for a member-account system.
//
// Authorisation state:
//   - Authorisation holds one authenticated session's guid, client cookie,
//     expiry, and per-provider access tokens. The cookie is generated lazily
//     on first read and is stable for the life of the object. The record
//     serializes to JSON and round-trips losslessly across request
//     boundaries; malformed input deserializes to "no session" rather than
//     an error.
//
// Session management:
//   - Session wraps the current Authorisation plus a transitional provider
//     slot that carries an in-flight OAuth identity before a local account
//     exists. Sessions are scoped per request via WithContext/FromContext,
//     never shared process-wide.
//
// Provisioning:
//   - ProfileManager orchestrates registration, profile saves, and password
//     recovery over the Records persistence collaborator. It bootstraps
//     local credentials, issues email verification keys, converts
//     transitional provider state into persisted provider links, and
//     dispatches profile events synchronously around each mutation. The
//     multi-step sequence is intentionally non-transactional: failures
//     surface from the failing step and prior writes stay committed.
//     Callers that need atomicity can wrap calls with
//     RepositoryManager.RunInTx.
package members
