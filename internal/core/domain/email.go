package domain

// OutboundEmail is a logical email before transport encoding.
type OutboundEmail struct {
	// To, Cc, Bcc are recipient address lists. Validation of recipients
	// is the caller's concern; the encoder accepts what it is given.
	To  []string `json:"to"`
	Cc  []string `json:"cc,omitempty"`
	Bcc []string `json:"bcc,omitempty"`

	// Subject is the message subject line.
	Subject string `json:"subject"`

	// Body is the rich-text (HTML) body. The encoder derives the
	// plain-text alternative from it.
	Body string `json:"body"`

	// InReplyTo is the prior message identifier when this email is a
	// threaded reply. Empty for a fresh message.
	InReplyTo string `json:"in_reply_to,omitempty"`

	// ThreadID links a reply to the provider-side conversation.
	ThreadID string `json:"thread_id,omitempty"`
}

// SentMessage identifies a delivered message or saved draft.
type SentMessage struct {
	// ID is the provider-assigned message (or draft) identifier.
	ID string `json:"id"`
	// ThreadID is the provider-side conversation identifier.
	ThreadID string `json:"thread_id,omitempty"`
}
