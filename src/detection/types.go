package detection

// ErrorResponse is the error envelope of the upload API; the detail string
// states the violated constraint for user-correctable failures and stays
// generic for internal ones.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ServiceInfo answers the API root with a short self-description.
type ServiceInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
