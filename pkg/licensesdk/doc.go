/*
Package licensesdk provides a typed client for the keygate licensing service.

The service exposes a small JSON surface: clients register an account, an
administrator approves it with an expiration date, and clients check in via
Login while approved and unexpired. Every response carries an explicit ok
flag; domain failures come back with ok=false and a machine-readable reason
code rather than an error, so callers branch on the response:

	client := licensesdk.NewClient("http://localhost:8080")

	reg, err := client.Register(ctx, "alice", "pw1234")
	if err != nil {
		// transport failure or server fault
	}
	if !reg.OK {
		// domain outcome, e.g. licensesdk.ReasonIDExists
	}

Admin operations require the shared admin secret, sent in the X-Admin-Key
header:

	admin := licensesdk.NewClient("http://localhost:8080")
	admin.AdminKey = "super-secret"
	resp, err := admin.SetApproval(ctx, "alice", true, "2099-01-01")

Login reports the stored expiry on success and the precise denial reason
otherwise (wrong_pw, not_approved, expired, ...). The package also carries
the shared request/response types and the closed reason-code vocabulary used
by the server itself.
*/
package licensesdk
