package core

// Logger is any service that can report messages.
// args may hold an error, a map[string]interface{} of extras, or the request's core.User.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// User identifies who triggered a logged message.
type User struct {
	ID       string
	Username string
	Email    string
}
