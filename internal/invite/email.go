// Package invite delivers partner invitations on behalf of the chat router.
package invite

import (
	"context"
	"fmt"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/pkg/log"
)

// mailSender is the slice of pkg/gmailer the inviter needs.
type mailSender interface {
	SendInvitation(ctx context.Context, to, subject, body string) error
}

// EmailInviter sends invitation emails to partners with an email contact.
// Phone contacts are acknowledged but not delivered; SMS delivery is handled
// by a separate service.
type EmailInviter struct {
	l      log.Logger
	mailer mailSender
}

// NewEmailInviter creates an email-backed invite sender.
func NewEmailInviter(l log.Logger, mailer mailSender) *EmailInviter {
	return &EmailInviter{
		l:      l,
		mailer: mailer,
	}
}

var _ chat.InviteSender = (*EmailInviter)(nil)

// SendInvitation emails the partner an invitation to join the session.
func (s *EmailInviter) SendInvitation(ctx context.Context, person model.Person, inviterName string) error {
	if !person.HasContact() {
		return fmt.Errorf("person %s has no contact method", person.FullName())
	}
	if person.Contact.Kind != model.ContactEmail {
		s.l.Infof(ctx, "invite: skipping %s contact for %s, only email is delivered here",
			person.Contact.Kind, person.FullName())
		return nil
	}

	subject := fmt.Sprintf("%s invited you to talk things through", inviterName)
	body := buildInvitationBody(person, inviterName)

	if err := s.mailer.SendInvitation(ctx, person.Contact.Value, subject, body); err != nil {
		return fmt.Errorf("failed to email invitation to %s: %w", person.Contact.Value, err)
	}

	s.l.Infof(ctx, "invite: invitation emailed to %s for %s", person.Contact.Value, person.FullName())
	return nil
}

func buildInvitationBody(person model.Person, inviterName string) string {
	name := person.FirstName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`Hi %s,

%s would like to work through something with you, with a neutral guide in the middle.

Each of you talks privately with the guide first, so both sides get heard before anything is exchanged. You share only what you choose to.

If you'd like to join, open the app and accept the invitation. If now isn't a good time, you can simply ignore this email.

Take care`, name, inviterName)
}
