package common

const (
	KEY_SESSION        = "session:%s"
	KEY_PUBLIC_SUMMARY = "public_summary"
)

const (
	HEADER_AUTHORIZATION = "Authorization"
	COOKIE_SESSION       = "session"
	BEARER_PREFIX        = "Bearer "
)
