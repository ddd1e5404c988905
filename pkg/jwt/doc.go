// Package jwt issues and verifies the access tokens that carry a
// principal's authorization claims to the hosting application's request
// layer.
//
// Tokens are HMAC-SHA256 JWTs whose payload embeds the packed permission
// set and, for tenant users, the tenant data key computed by pkg/claims:
//
//	svc, err := jwt.New([]byte(signingKey))
//	if err != nil { ... }
//
//	cl, _ := calc.ClaimsFor(ctx, userID)
//	token, err := svc.Issue(userID, cl, 15*time.Minute)
//
//	access, err := svc.Parse(token)
//	// access.Permissions, access.DataKey
//
// Parse rejects malformed tokens, wrong algorithms, bad signatures, and
// expired tokens with distinct sentinel errors. Context helpers carry the
// parsed AccessClaims through a request.
package jwt
