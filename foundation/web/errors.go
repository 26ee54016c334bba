package web

// RequestError is an error a handler can respond with directly: a wrapped
// cause plus the http status code to answer with.
type RequestError struct {
	Err    error
	Status int
}

func NewRequestError(err error, status int) error {
	return &RequestError{Err: err, Status: status}
}

func (r *RequestError) Error() string {
	return r.Err.Error()
}

func (r *RequestError) Unwrap() error {
	return r.Err
}
