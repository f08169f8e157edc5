// Package decision implements the retention-offer decision engine: segment
// classification, offer scoring, content rendering, ranking, and customer
// analysis.
//
// Everything in this package is a deterministic, total function over
// request-scoped inputs. Nothing here performs I/O, touches the clock, or
// mutates shared state, which is what makes the policy auditable and the
// pipeline safe to run concurrently across requests. Input validation is the
// orchestrator's job (internal/service/decision); by the time a profile
// reaches this package it is assumed well-formed.
package decision
