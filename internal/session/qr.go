package session

import (
	"context"
	"fmt"
	"net/url"
)

// QRStatus describes the state of a QR login ticket.
type QRStatus int

const (
	// QRStatusPending means the code has not been scanned yet.
	QRStatusPending QRStatus = iota
	// QRStatusScanned means the code was scanned and awaits confirmation on the phone.
	QRStatusScanned
	// QRStatusConfirmed means login succeeded and the session is established.
	QRStatusConfirmed
	// QRStatusExpired means the code expired and a new ticket is required.
	QRStatusExpired
)

// String returns a human-readable name for the QR status.
func (s QRStatus) String() string {
	switch s {
	case QRStatusPending:
		return "pending"
	case QRStatusScanned:
		return "scanned"
	case QRStatusConfirmed:
		return "confirmed"
	case QRStatusExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// QRTicket identifies a QR login attempt.
type QRTicket struct {
	// Unikey is the server-issued ticket key.
	Unikey string
	// URL is the login URL to encode as a QR code.
	URL string
}

const (
	// ncmAPIQRUnikeyURI is the URI path for issuing QR login tickets.
	ncmAPIQRUnikeyURI = "api/login/qrcode/unikey"
	// ncmAPIQRCheckURI is the URI path for polling QR login tickets.
	ncmAPIQRCheckURI = "api/login/qrcode/client/login"

	// QR poll status codes reported by the API.
	qrCodeExpired   = 800
	qrCodePending   = 801
	qrCodeScanned   = 802
	qrCodeConfirmed = 803
)

// BeginQRLogin requests a QR login ticket.
func (s *Store) BeginQRLogin(ctx context.Context) (*QRTicket, error) {
	const op = "qr login begin"

	form := url.Values{}
	form.Set("type", "1")

	envelope, err := s.postForm(ctx, ncmAPIQRUnikeyURI, form)
	if err != nil {
		return nil, &AuthError{Op: op, Err: err}
	}

	if envelope.Code != apiCodeOK || envelope.Unikey == "" {
		return nil, &AuthError{Op: op, Credential: true,
			Err: fmt.Errorf("%w: code %d", ErrLoginRejected, envelope.Code)}
	}

	return &QRTicket{
		Unikey: envelope.Unikey,
		URL:    fmt.Sprintf("%s/login?codekey=%s", s.cfg.NCMBaseURL, envelope.Unikey),
	}, nil
}

// PollQRLogin checks the state of a QR login ticket.
// On confirmation the session is persisted immediately.
func (s *Store) PollQRLogin(ctx context.Context, ticket *QRTicket) (QRStatus, error) {
	const op = "qr login poll"

	form := url.Values{}
	form.Set("key", ticket.Unikey)
	form.Set("type", "1")

	envelope, err := s.postForm(ctx, ncmAPIQRCheckURI, form)
	if err != nil {
		return QRStatusPending, &AuthError{Op: op, Err: err}
	}

	switch envelope.Code {
	case qrCodePending:
		return QRStatusPending, nil
	case qrCodeScanned:
		return QRStatusScanned, nil
	case qrCodeExpired:
		return QRStatusExpired, nil
	case qrCodeConfirmed:
		s.mu.Lock()
		defer s.mu.Unlock()

		if err = s.persistLocked(); err != nil {
			return QRStatusConfirmed, err
		}

		return QRStatusConfirmed, nil
	default:
		return QRStatusPending, &AuthError{Op: op,
			Err: fmt.Errorf("%w: %d", ErrUnexpectedQRCode, envelope.Code)}
	}
}
