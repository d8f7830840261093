package common

// AuthorizationHeader carries the bearer token on protected HTTP requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token inside AuthorizationHeader.
const BearerPrefix = "Bearer "
