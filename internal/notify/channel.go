// Package notify provides delivery channels for budget alerts. The core
// treats a channel as opaque: it hands over an address, subject and body
// and does not care whether delivery happens over email, a message queue
// or a log line.
package notify

import "context"

// Channel delivers a composed alert to a recipient address.
type Channel interface {
	Send(ctx context.Context, address, subject, body string) error
}
