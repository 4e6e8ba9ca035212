package invite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"relationship-mediator/internal/model"
	"relationship-mediator/pkg/log"
)

type fakeMailer struct {
	to      string
	subject string
	body    string
	err     error
	calls   int
}

func (f *fakeMailer) SendInvitation(ctx context.Context, to, subject, body string) error {
	f.calls++
	f.to = to
	f.subject = subject
	f.body = body
	return f.err
}

func emailPerson(first, email string) model.Person {
	return model.Person{
		FirstName: first,
		Contact:   &model.ContactMethod{Kind: model.ContactEmail, Value: email},
	}
}

func TestEmailInviter(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends To Email Contact", func(t *testing.T) {
		mailer := &fakeMailer{}
		inviter := NewEmailInviter(log.NewNop(), mailer)

		err := inviter.SendInvitation(ctx, emailPerson("Sarah", "sarah@example.com"), "Jo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mailer.to != "sarah@example.com" {
			t.Errorf("unexpected recipient %q", mailer.to)
		}
		if !strings.Contains(mailer.subject, "Jo") {
			t.Errorf("subject should name the inviter, got %q", mailer.subject)
		}
		if !strings.Contains(mailer.body, "Sarah") || !strings.Contains(mailer.body, "Jo") {
			t.Errorf("body should address the partner and name the inviter, got %q", mailer.body)
		}
	})

	t.Run("Skips Phone Contact", func(t *testing.T) {
		mailer := &fakeMailer{}
		inviter := NewEmailInviter(log.NewNop(), mailer)

		person := model.Person{
			FirstName: "Sam",
			Contact:   &model.ContactMethod{Kind: model.ContactPhone, Value: "+15551234567"},
		}
		if err := inviter.SendInvitation(ctx, person, "Jo"); err != nil {
			t.Fatalf("phone contact must be skipped without error: %v", err)
		}
		if mailer.calls != 0 {
			t.Error("no email must be sent for a phone contact")
		}
	})

	t.Run("Missing Contact Is An Error", func(t *testing.T) {
		inviter := NewEmailInviter(log.NewNop(), &fakeMailer{})

		err := inviter.SendInvitation(ctx, model.Person{FirstName: "Maya"}, "Jo")
		if err == nil {
			t.Error("expected an error for a person without contact")
		}
	})

	t.Run("Mailer Failure Is Wrapped", func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("smtp down")}
		inviter := NewEmailInviter(log.NewNop(), mailer)

		err := inviter.SendInvitation(ctx, emailPerson("Sarah", "sarah@example.com"), "Jo")
		if err == nil || !strings.Contains(err.Error(), "sarah@example.com") {
			t.Errorf("expected wrapped delivery error, got %v", err)
		}
	})
}
