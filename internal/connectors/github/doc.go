// Package github implements repository traversal against the GitHub API.
//
// It provides the two traversal strategies behind the
// [driven.TreeLister] port:
//
//   - Bulk: one recursive Trees API call per repository. Requires a
//     credential (unauthenticated callers get 60 requests/hour, which a
//     large tree plus blob fetches would exhaust immediately).
//
//   - Walker: directory-by-directory Contents API enumeration in
//     deterministic breadth-first order. Works without a credential.
//
// Selection is a pure function of configuration, evaluated once per
// process: the walker is used when no credential is present or when
// the force-walk override is set.
//
// # Rate Limiting
//
// Every outbound call passes through one shared guarded client. The
// guard combines proactive throttling (a token bucket kept under the
// documented quota) with reactive handling of the X-RateLimit-*
// response headers. Quota exhaustion blocks the calling operation
// until the advertised reset time, bounded to three attempts before
// surfacing a [RateLimitError]. Transient transport failures retry
// with exponential backoff under the same attempt bound before
// surfacing a [NetworkError]. Credential rejection is never retried.
//
// # Error Handling
//
//   - Rate limit exhaustion after retries: [RateLimitError]
//   - Transport failure after retries: [NetworkError]
//   - Bad or revoked credential: [APIError] with status 401/403,
//     detected via [IsUnauthorized]
//   - Missing path or repository: [APIError] 404, via [IsNotFound]
package github
