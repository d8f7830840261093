package validation

// Errors maps a field name to its violation messages. A field that was
// checked and passed is present with an empty list.
type Errors map[string][]string

// Valid reports whether every checked field passed.
func (e Errors) Valid() bool {
	for _, msgs := range e {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}

// First returns the first message of the first failing field in wire order,
// for callers that can only show one line.
func (e Errors) First() string {
	for _, field := range fieldOrder {
		if msgs := e[field]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

// FieldError is one entry of the "errors" array in a 400 response. Gate
// failures carry Messages; store and credential rejections carry Message.
type FieldError struct {
	Field    string   `json:"field"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
	Value    string   `json:"value,omitempty"`
}

var fieldOrder = []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword}

// secretFields are never echoed back in FieldError.Value.
var secretFields = map[string]bool{FieldPassword: true, FieldConfirmPassword: true}

// Fields renders the failing fields in a stable order. values supplies the
// offending input for each field; secrets are left out.
func (e Errors) Fields(values map[string]string) []FieldError {
	out := make([]FieldError, 0, len(e))
	for _, field := range fieldOrder {
		msgs := e[field]
		if len(msgs) == 0 {
			continue
		}
		fe := FieldError{Field: field, Messages: msgs}
		if !secretFields[field] {
			fe.Value = values[field]
		}
		out = append(out, fe)
	}
	return out
}

// SignupInput is the signup form as typed by the user.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in SignupInput) values() map[string]string {
	return map[string]string{
		FieldUsername: in.Username,
		FieldEmail:    in.Email,
	}
}

// ValidateSignup runs every signup field through its validator.
func ValidateSignup(in SignupInput) Errors {
	return Errors{
		FieldUsername:        Username(in.Username),
		FieldEmail:           Email(in.Email),
		FieldPassword:        SignupPassword(in.Password),
		FieldConfirmPassword: ConfirmPassword(in.ConfirmPassword, in.Password),
	}
}

// SignupFields validates in and renders the failures for a response body.
func SignupFields(in SignupInput) ([]FieldError, bool) {
	errs := ValidateSignup(in)
	return errs.Fields(in.values()), errs.Valid()
}

// LoginInput is the login form as typed by the user.
type LoginInput struct {
	Email    string
	Password string
}

// ValidateLogin checks the login form with the weaker password rule.
func ValidateLogin(in LoginInput) Errors {
	return Errors{
		FieldEmail:    Email(in.Email),
		FieldPassword: LoginPassword(in.Password),
	}
}

// LoginFields validates in and renders the failures for a response body.
func LoginFields(in LoginInput) ([]FieldError, bool) {
	errs := ValidateLogin(in)
	return errs.Fields(map[string]string{FieldEmail: in.Email}), errs.Valid()
}
