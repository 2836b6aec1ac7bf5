package types

// Identity provider event types handled by the webhook.
const (
	IdentityUserCreated = "user.created"
	IdentityUserUpdated = "user.updated"
	IdentityUserDeleted = "user.deleted"
)

// IdentityEvent is the envelope posted by the identity provider.
type IdentityEvent struct {
	Type string       `json:"type"`
	Data IdentityUser `json:"data"`
}

// IdentityUser is the user object nested in an identity event.
type IdentityUser struct {
	ID             string         `json:"id"`
	FirstName      *string        `json:"first_name"`
	LastName       *string        `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

// EmailAddress is one address attached to an identity user.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first email address, which is treated as canonical.
func (u IdentityUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}
