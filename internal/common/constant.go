package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// Post and profile limits shared by models, schema and transport.
const (
	MaxPostBodyLength   = 140
	MaxLanguageLength   = 5
	MaxUsernameLength   = 64
	MaxEmailLength      = 120
	MaxAboutMeLength    = 140
	MaxPasswordHashSize = 256
)
