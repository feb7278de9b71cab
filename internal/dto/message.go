package dto

// SendMessageResponse reports fan-out results. A partial dispatch failure
// is a normal outcome: EmailsSent counts successes, TotalRecipients the
// unique addresses attempted.
type SendMessageResponse struct {
	Success         bool   `json:"success"`
	MessageID       string `json:"messageId"`
	EmailsSent      int    `json:"emailsSent"`
	TotalRecipients int    `json:"totalRecipients"`
}
