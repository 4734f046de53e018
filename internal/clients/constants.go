package clients

import "time"

const (
	CHAT_REQUEST_TIMEOUT = 15 * time.Second
	HEALTHCHECK_TIMEOUT  = 5 * time.Second
	USER_AGENT           = "moodmate/1.0 (+https://github.com/spacesedan/moodmate)"
)
