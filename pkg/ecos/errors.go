package ecos

import (
	"errors"
	"fmt"
)

// Vendor-specific error codes carried in the response envelope.
const (
	codeParameterVerification = 20404
	codeAuthenticationFailed  = 20414
	codeDeviceUnauthorized    = 20424
	codeHomeNotFound          = 20450
)

var (
	// ErrUnauthorized is returned when the access token is missing, invalid or
	// expired and no re-login was possible.
	ErrUnauthorized = errors.New("ecos: unauthorized")

	// ErrAuthentication is returned by Login when the account, password or
	// country is wrong.
	ErrAuthentication = errors.New("ecos: account or password error")

	// ErrParameterVerification is returned when the API rejects a request
	// parameter, e.g. an unsupported period type.
	ErrParameterVerification = errors.New("ecos: parameter verification failed")

	// ErrInvalidResponse is returned when the API responds with a body that is
	// not the expected JSON envelope.
	ErrInvalidResponse = errors.New("ecos: invalid response body")
)

// APIError is an error reported inside an otherwise successful HTTP response,
// via the envelope's code and message fields.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ecos: api error %d: %s", e.Code, e.Message)
}

// HTTPError is a non-2xx HTTP response that doesn't map to a more specific
// error.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ecos: http error %d", e.StatusCode)
	}
	return fmt.Sprintf("ecos: http error %d: %s", e.StatusCode, e.Message)
}

// HomeNotFoundError is returned when a home ID is unknown to the account.
type HomeNotFoundError struct {
	HomeID string
	err    error
}

func (e *HomeNotFoundError) Error() string {
	return fmt.Sprintf("ecos: home %s does not exist", e.HomeID)
}

func (e *HomeNotFoundError) Unwrap() error {
	return e.err
}

// DeviceUnauthorizedError is returned when a device ID is unknown or not
// authorized for the account.
type DeviceUnauthorizedError struct {
	DeviceID string
	err      error
}

func (e *DeviceUnauthorizedError) Error() string {
	return fmt.Sprintf("ecos: device %s is not authorized", e.DeviceID)
}

func (e *DeviceUnauthorizedError) Unwrap() error {
	return e.err
}

// wrapHomeErr converts the home-not-found vendor code into a typed error and
// passes everything else through.
func wrapHomeErr(err error, homeID string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == codeHomeNotFound {
		return &HomeNotFoundError{HomeID: homeID, err: err}
	}
	return err
}

// wrapDeviceErr converts the unauthorized-device and parameter-verification
// vendor codes into typed errors and passes everything else through.
func wrapDeviceErr(err error, deviceID string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case codeDeviceUnauthorized:
			return &DeviceUnauthorizedError{DeviceID: deviceID, err: err}
		case codeParameterVerification:
			return fmt.Errorf("%w: %s", ErrParameterVerification, apiErr.Message)
		}
	}
	return err
}
