package media

import "errors"

var (
	// ErrNoFile indicates the request carried no uploaded byte stream.
	ErrNoFile = errors.New("no file provided")
	// ErrWrongType indicates the sniffed content type is not a video stream.
	ErrWrongType = errors.New("wrong file type")
)
