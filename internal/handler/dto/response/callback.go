package response

// Callback bodies follow the ad network's expected shapes rather than the
// API error envelope; the network's delivery agent retries on anything else.

type CallbackSuccess struct {
	Success bool `json:"success"`
}

type CallbackReplay struct {
	Message string `json:"message"`
}

type CallbackError struct {
	Error string `json:"error"`
}
