package domain

// EnforceRequest asks whether a token of TokenType may perform Action on
// Resource.
type EnforceRequest struct {
	TokenType string `json:"token_type"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
}
