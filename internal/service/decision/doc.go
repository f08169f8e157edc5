// Package decision (service) orchestrates the retention-offer decision
// request: request validation, access policy, one read of the project's
// active offers, the pure engine evaluation, and the audit trail.
//
// The service layer owns every side effect of a decision request. It depends
// on repository interfaces defined in this package and should never import
// from the API layer. The pure pipeline itself lives in internal/decision.
package decision
