package models

// Jobs maps a derived job key to the posting's absolute URL.
// Keys are unique by construction; no ordering is significant.
type Jobs map[string]string
