// Package httpclient provides the retrying GET executor used to talk to
// the BADSEC server.
//
// Retries
//   - Every logical call gets a fixed attempt budget (default 3).
//   - Before attempt i the executor waits Delays[i] (default 0s, 3s, 7s).
//     Attempts past the end of the schedule reuse its last entry.
//   - The loop stops early only on status 200.
//
// Outcomes
//   - A 200 response is returned as soon as it arrives.
//   - Other statuses are not errors. The last one is returned once the
//     budget is spent; CheckStatus converts it into an HTTP error.
//   - Transport failures (network errors, per-attempt timeouts, body read
//     failures) are collected. They surface as an *AggregateError only when
//     no attempt produced a response.
//   - Cancelling the context aborts immediately with a cancellation error,
//     whether the executor is waiting or sending.
//
// Observability
//   - One span per logical call with an event per failed attempt.
//   - Attempt counters and duration histograms via OpenTelemetry metrics.
//   - A request ID header shared by all attempts of a call.
package httpclient
