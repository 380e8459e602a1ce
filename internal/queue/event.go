// Package queue defines message payloads exchanged over the message broker
// and the background consumer that delivers them.
package queue

// EmailQueueName is the durable queue carrying email-token dispatch
// requests from the API process to the delivery consumer.
const EmailQueueName = "auth.email"

// Purpose values carried by EmailTokenEvent.
const (
    PurposeActivation    = "activation"
    PurposePasswordReset = "password_reset"
)

// EmailTokenEvent is published whenever an activation or password-reset
// token is issued. It carries everything the consumer needs to compose and
// send the message without querying the primary database.
type EmailTokenEvent struct {
    Email       string `json:"email"`
    Username    string `json:"username"`
    Purpose     string `json:"purpose"`
    Token       string `json:"token"`
    RequestedAt string `json:"requested_at"`
}
