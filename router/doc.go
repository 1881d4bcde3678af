// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the GatedNet poll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Members:

	POST /members       - Register a resident (returns member_token)
	GET  /members/{id}  - Own profile (member auth)

Polls:

	POST   /polls             - Create poll (returns admin_key)
	GET    /polls             - Active polls with counts and tally
	GET    /polls/{id}        - One poll
	POST   /polls/{id}/close  - Close (X-Admin-Key)
	DELETE /polls/{id}        - Delete (X-Admin-Key)

Voting (member auth):

	POST /vote                 - Cast vote {poll_id, option_index, member_id}
	POST /polls/{id}/votes     - Cast vote {option_index}
	GET  /polls/{id}/my-vote   - Caller's vote

Results:

	GET /polls/{id}/results

All routes except /health and / are wrapped with request logging.
*/
package router
