package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthController exposes the authentication operations over HTTP. All
// responses are JSON envelopes of the form {success, message}.
type AuthController struct {
	Auther  *Auther
	Cookies *CookieTransport
	Logger  Logger
}

func NewAuthController(auther *Auther, cookies *CookieTransport) *AuthController {
	if auther == nil {
		panic("Missing Auther in auth controller...")
	}
	if cookies == nil {
		panic("Missing CookieTransport in auth controller...")
	}

	return &AuthController{
		Auther:  auther,
		Cookies: cookies,
		Logger:  defLogger{},
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterAuthRoutes mounts the authentication endpoints on the given
// router, typically a group under /api/auth.
func RegisterAuthRoutes(router fiber.Router, controller *AuthController) {
	router.Post("/register", controller.Register)
	router.Post("/login", controller.Login)
	router.Post("/logout", controller.Logout)
	router.Post("/forgot-password", controller.ForgotPassword)
	router.Get("/reset-password/:id/:token", controller.ResetPasswordShow)
	router.Post("/reset-password/:id/:token", controller.ResetPasswordExecute)
}

// RegisterPayload is the registration body.
type RegisterPayload struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.badRequest(c, "All fields are required")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return a.badRequest(c, "All fields are required")
	}

	token, _, err := a.Auther.Register(c.UserContext(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		return a.respondError(c, err)
	}

	a.Cookies.Attach(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
	})
}

// LoginPayload is the login body.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.badRequest(c, "Email and password required")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(c, "Email and password required")
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(c, err)
	}

	a.Cookies.Attach(c, token)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
	})
}

// Logout clears the session cookie. The token itself stays valid until its
// expiry; pure stateless sessions have no server-side revocation.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	a.Cookies.Clear(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ForgotPasswordPayload carries the account email.
type ForgotPasswordPayload struct {
	Email string `form:"email" json:"email"`
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	payload := new(ForgotPasswordPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("forgot-password parse payload", "error", err)
		return a.respondError(c, ErrUserNotFound)
	}

	if err := a.Auther.ForgotPassword(c.UserContext(), payload.Email); err != nil {
		return a.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Password reset link sent to email",
	})
}

func (a *AuthController) ResetPasswordShow(c *fiber.Ctx) error {
	id := c.Params("id")
	token := c.Params("token")

	user, err := a.Auther.VerifyReset(c.UserContext(), id, token)
	if err != nil {
		return a.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"email": user.Email,
			"id":    id,
			"token": token,
		},
	})
}

// ResetPasswordPayload is the change-password form body.
type ResetPasswordPayload struct {
	Password string `form:"password" json:"password"`
	Confirm  string `form:"confirm" json:"confirm"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Confirm, validation.Required),
	)
}

func (a *AuthController) ResetPasswordExecute(c *fiber.Ctx) error {
	id := c.Params("id")
	token := c.Params("token")

	payload := new(ResetPasswordPayload)
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("reset-password parse payload", "error", err)
		return a.badRequest(c, "Passwords do not match")
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(c, "Passwords do not match")
	}

	if payload.Password != payload.Confirm {
		return a.badRequest(c, "Passwords do not match")
	}

	if err := a.Auther.ResetPassword(c.UserContext(), id, token, payload.Password); err != nil {
		return a.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Password reset successful. You can now login.",
	})
}

func (a *AuthController) badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func (a *AuthController) respondError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": richErr.Message,
	})
}
