package form

import (
	"context"
	"log"

	"github.com/louisbranch/easyvents/internal/auth/validation"
)

// LoginInput is the raw login form.
type LoginInput struct {
	Email    string
	Password string
	Remember bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates in, posts it to /login, and stores the user in the durable
// scope when Remember is set, otherwise in the ephemeral scope.
func (c *Controller) Login(ctx context.Context, in LoginInput) Outcome {
	if !c.begin(Login) {
		return Outcome{Form: Login, Ignored: true}
	}
	email := validation.TrimSpace(in.Email)
	password := validation.TrimSpace(in.Password)

	if email == "" || password == "" {
		return c.fail(Login, c.copy.FillAllFields, nil)
	}
	if !validation.IsValidEmail(email) {
		return c.fail(Login, c.copy.InvalidEmail, nil)
	}

	result := c.api.Post(ctx, "/login", loginRequest{Email: email, Password: password})
	if !result.Success {
		return c.fail(Login, result.Message, redirectTo(result.Redirect, c.cfg.RedirectDelay))
	}

	if err := c.sessions.Save(ctx, result.User, in.Remember); err != nil {
		log.Printf("login save session: remember=%t err=%v", in.Remember, err)
		return c.fail(Login, c.copy.SessionFailed, nil)
	}
	return c.succeed(Login, c.copy.SuccessPrefix+result.Message, &Navigation{
		Path:  c.cfg.LandingPath,
		Delay: c.cfg.LoginSuccessDelay,
	})
}
