package mail

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	_ "github.com/emersion/go-message/charset" // register extended charsets

	"github.com/parcelflow/parcelflow/internal/model"
	"github.com/parcelflow/parcelflow/internal/service"
)

// Decoder converts raw RFC 822 messages into the decoded form parsers
// consume. HTML parts are preferred over plain text because retailer
// templates put the tracking links in the HTML rendition; multiple HTML
// parts are joined with newlines.
type Decoder struct{}

// NewDecoder creates a message decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode extracts the sender, subject, timestamp and preferred body text.
func (d *Decoder) Decode(raw service.RawMessage) (model.EmailMessage, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw.Raw))
	if err != nil && mr == nil {
		return model.EmailMessage{}, fmt.Errorf("parse message %d: %w", raw.UID, err)
	}

	msg := model.EmailMessage{
		Timestamp: raw.InternalDate,
	}

	if addrs, err := mr.Header.AddressList("From"); err == nil && len(addrs) > 0 {
		msg.From = addrs[0].Address
	} else {
		msg.From = mr.Header.Get("From")
	}
	msg.Subject, _ = mr.Header.Subject()
	if msg.Timestamp.IsZero() {
		if date, err := mr.Header.Date(); err == nil {
			msg.Timestamp = date
		}
	}

	var htmlParts, plainParts []string

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A truncated multipart stream repeats the same error on
			// every call; keep the parts already collected and stop.
			break
		}
		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, err := inline.ContentType()
		if err != nil {
			continue
		}
		switch mediaType {
		case "text/html":
			body, err := io.ReadAll(part.Body)
			if err == nil {
				htmlParts = append(htmlParts, string(body))
			}
		case "text/plain":
			body, err := io.ReadAll(part.Body)
			if err == nil {
				plainParts = append(plainParts, string(body))
			}
		}
	}

	if len(htmlParts) > 0 {
		msg.Body = strings.Join(htmlParts, "\n")
	} else {
		msg.Body = strings.Join(plainParts, "\n")
	}
	return msg, nil
}
