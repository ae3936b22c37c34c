package domain

import "errors"

var (
	ErrShipmentNotFound      = errors.New("shipment not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrDocumentNumberExists  = errors.New("document number already exists")
	ErrInvalidID             = errors.New("invalid identifier")
	ErrInvalidTransitStop    = errors.New("invalid transit stop")
	ErrInvalidStopStatus     = errors.New("invalid stop status")
	ErrInvalidShipmentStatus = errors.New("invalid shipment status")
	ErrStopIndexOutOfRange   = errors.New("stop index out of range")
	ErrForbidden             = errors.New("access forbidden")
	ErrTemplateNotFound      = errors.New("document template not found")
	ErrInvalidTemplate       = errors.New("invalid document template")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrTokenRevoked       = errors.New("token revoked")
)
