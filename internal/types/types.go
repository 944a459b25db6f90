package types

// WebhookResponse tells the webhook sender what one delivery produced.
type WebhookResponse struct {
	DeliveryID string `json:"deliveryId"`
	Repo       string `json:"repo,omitempty"`
	Outcome    string `json:"outcome"`
	Created    int    `json:"created"`
	Reopened   int    `json:"reopened"`
	Skipped    int    `json:"skipped"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
