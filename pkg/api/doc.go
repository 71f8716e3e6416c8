// Package api serves the slidegraph pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz                      liveness and build version
//	POST   /api/v1/explore               board → graph.json and stats
//	POST   /api/v1/layout                board + view parameters → layout.json
//	POST   /api/v1/render                board + one format → raw artifact
//	POST   /api/v1/neighbors             board + state → legal moves
//	POST   /api/v1/walks                 start a walk session
//	GET    /api/v1/walks/{id}            load a walk
//	POST   /api/v1/walks/{id}/select     move the walk's cursor
//	POST   /api/v1/walks/{id}/undo       step back
//	POST   /api/v1/walks/{id}/reset      return to the start state
//	DELETE /api/v1/walks/{id}            forget a walk
//
// Request bodies are JSON. Failures use a common envelope:
//
//	{"error": {"code": "INVALID_BOARD", "message": "parse board: ..."}}
//
// Error codes from [errors] map to HTTP status: INVALID_* → 400,
// NOT_FOUND and SESSION_NOT_FOUND → 404, UNSUPPORTED → 415, anything else
// → 500.
//
// [errors]: github.com/matzehuels/slidegraph/pkg/errors
package api
