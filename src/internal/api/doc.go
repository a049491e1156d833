// Package api provides the REST API of wgvpc.
//
// It exposes CRUD over VPC, router, LAN, remote and subnet records and the
// router lifecycle (up, down, restart, status).
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "NOT_FOUND_ERROR",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// Lifecycle operations that completed with failed items answer 200 with the
// report and "partial": true. Operations that failed as a whole answer with
// an error.
package api
