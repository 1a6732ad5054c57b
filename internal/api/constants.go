package api

// APIVersion is reported in the OpenAPI document.
const APIVersion = "1.0.0"

// apiPrefix is the mount point of every versioned route.
const apiPrefix = "/api/v1"

// securityScheme names the Authorization header scheme in the OpenAPI document.
const securityScheme = "token"

// tokenSecurity marks an operation as requiring a session token.
var tokenSecurity = []map[string][]string{{securityScheme: {}}}
