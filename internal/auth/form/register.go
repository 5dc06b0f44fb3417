package form

import (
	"context"
	"log"

	"github.com/louisbranch/easyvents/internal/auth/validation"
)

// RegistrationInput is the raw registration form.
type RegistrationInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
	Newsletter      bool
}

// registerRequest is the body of POST /register.
type registerRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Newsletter bool   `json:"newsletter"`
}

func (in RegistrationInput) trimmed() RegistrationInput {
	in.FirstName = validation.TrimSpace(in.FirstName)
	in.LastName = validation.TrimSpace(in.LastName)
	in.Email = validation.TrimSpace(in.Email)
	in.Phone = validation.TrimSpace(in.Phone)
	in.Password = validation.TrimSpace(in.Password)
	in.ConfirmPassword = validation.TrimSpace(in.ConfirmPassword)
	return in
}

// Register validates in, posts it to /register, and stores the new user in
// the ephemeral scope on success.
func (c *Controller) Register(ctx context.Context, in RegistrationInput) Outcome {
	if !c.begin(Register) {
		return Outcome{Form: Register, Ignored: true}
	}
	in = in.trimmed()

	if msg, ok := c.validateRegistration(in); !ok {
		return c.fail(Register, msg, nil)
	}

	result := c.api.Post(ctx, "/register", registerRequest{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		Password:   in.Password,
		Newsletter: in.Newsletter,
	})
	if !result.Success {
		return c.fail(Register, result.Message, redirectTo(result.Redirect, c.cfg.RedirectDelay))
	}

	if err := c.sessions.Save(ctx, result.User, false); err != nil {
		log.Printf("register save session: %v", err)
		return c.fail(Register, c.copy.SessionFailed, nil)
	}
	return c.succeed(Register, c.copy.SuccessPrefix+result.Message, &Navigation{
		Path:  c.cfg.LandingPath,
		Delay: c.cfg.RegisterSuccessDelay,
	})
}

func (c *Controller) validateRegistration(in RegistrationInput) (string, bool) {
	required := validation.ValidateRequiredFields([]validation.Field{
		{Label: c.copy.LabelFirstName, Value: in.FirstName},
		{Label: c.copy.LabelLastName, Value: in.LastName},
		{Label: c.copy.LabelEmail, Value: in.Email},
		{Label: c.copy.LabelPassword, Value: in.Password},
		{Label: c.copy.LabelConfirmPassword, Value: in.ConfirmPassword},
	})
	if !required.Valid {
		return c.copy.RequiredFieldMessage(required.Field), false
	}
	if !validation.IsValidEmail(in.Email) {
		return c.copy.InvalidEmail, false
	}
	if in.Phone != "" && !validation.IsValidPhone(in.Phone) {
		return c.copy.InvalidPhone, false
	}
	if password := validation.IsValidPassword(in.Password); !password.Valid {
		return c.copy.PasswordMessage(password), false
	}
	if in.Password != in.ConfirmPassword {
		return c.copy.PasswordMismatch, false
	}
	if !in.AcceptTerms {
		return c.copy.TermsRequired, false
	}
	return "", true
}

// PasswordHint returns an advisory hint for a password being typed, or "" when
// value is empty or acceptable.
func (c *Controller) PasswordHint(value string) string {
	if value == "" {
		return ""
	}
	result := validation.IsValidPassword(value)
	if result.Valid {
		return ""
	}
	return c.copy.PasswordMessage(result)
}

// ConfirmHint returns an advisory mismatch hint, or "" when confirm is empty or
// matches password.
func (c *Controller) ConfirmHint(password, confirm string) string {
	if confirm == "" || confirm == password {
		return ""
	}
	return c.copy.PasswordMismatch
}
