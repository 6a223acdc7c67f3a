package core

type ErrorInvalid struct {
	Message string
}

func (e ErrorInvalid) Error() string {
	return e.Message
}

func NewErrorInvalid(message string) ErrorInvalid {
	return ErrorInvalid{Message: message}
}

type ErrorUnsupported struct {
}

func (e ErrorUnsupported) Error() string {
	return "this plugin does not expose any permission rule or cannot evaluate conditional decisions"
}

func NewErrorUnsupported() ErrorUnsupported {
	return ErrorUnsupported{}
}

type ErrorNotFound struct {
}

func (e ErrorNotFound) Error() string {
	return "Not Found"
}

func NewErrorNotFound() ErrorNotFound {
	return ErrorNotFound{}
}
