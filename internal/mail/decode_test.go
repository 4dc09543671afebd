package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelflow/parcelflow/internal/service"
)

func rawMessage(t *testing.T, body string) []byte {
	t.Helper()
	return []byte(strings.ReplaceAll(body, "\n", "\r\n"))
}

func TestDecodePrefersHTML(t *testing.T) {
	raw := rawMessage(t, `From: UPS <mcinfo@ups.com>
Subject: Your package is on its way
Date: Mon, 17 Aug 2026 10:00:00 +0000
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b1"

--b1
Content-Type: text/plain; charset=utf-8

Plain body
--b1
Content-Type: text/html; charset=utf-8

<p>HTML body</p>
--b1--
`)

	decoder := NewDecoder()
	msg, err := decoder.Decode(service.RawMessage{UID: 1, Raw: raw})
	require.NoError(t, err)

	assert.Equal(t, "mcinfo@ups.com", msg.From)
	assert.Equal(t, "Your package is on its way", msg.Subject)
	assert.Contains(t, msg.Body, "HTML body")
	assert.NotContains(t, msg.Body, "Plain body")
}

func TestDecodeJoinsHTMLParts(t *testing.T) {
	raw := rawMessage(t, `From: orders@somestore.com
Subject: shipped
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="b1"

--b1
Content-Type: text/html

<p>part one</p>
--b1
Content-Type: text/html

<p>part two</p>
--b1--
`)

	decoder := NewDecoder()
	msg, err := decoder.Decode(service.RawMessage{UID: 1, Raw: raw})
	require.NoError(t, err)

	assert.Contains(t, msg.Body, "part one")
	assert.Contains(t, msg.Body, "part two")
	assert.Less(t,
		strings.Index(msg.Body, "part one"),
		strings.Index(msg.Body, "part two"))
}

func TestDecodeFallsBackToPlainText(t *testing.T) {
	raw := rawMessage(t, `From: orders@somestore.com
Subject: shipped
Content-Type: text/plain

Tracking Number: 1Z999AA10123456784
`)

	decoder := NewDecoder()
	msg, err := decoder.Decode(service.RawMessage{UID: 1, Raw: raw})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "1Z999AA10123456784")
}

func TestDecodeTruncatedMultipartKeepsCollectedParts(t *testing.T) {
	// The closing --b1-- boundary is missing; the reader reports the same
	// error on every NextPart call, which must not loop forever.
	raw := rawMessage(t, `From: orders@somestore.com
Subject: shipped
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="b1"

--b1
Content-Type: text/html

<p>good part</p>
--b1
Content-Type: text/html

<p>torn part
`)

	decoder := NewDecoder()
	done := make(chan struct{})
	var msg = struct {
		body string
		err  error
	}{}

	go func() {
		defer close(done)
		m, err := decoder.Decode(service.RawMessage{UID: 1, Raw: raw})
		msg.body, msg.err = m.Body, err
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Decode did not return for a truncated multipart message")
	}

	require.NoError(t, msg.err)
	assert.Contains(t, msg.body, "good part")
}

func TestDecodeDamagedPartIsSkipped(t *testing.T) {
	// One part with an invalid transfer encoding loses only that part.
	raw := rawMessage(t, `From: orders@somestore.com
Subject: shipped
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="b1"

--b1
Content-Type: text/html
Content-Transfer-Encoding: base64

!!!not base64!!!
--b1
Content-Type: text/html

<p>good part</p>
--b1--
`)

	decoder := NewDecoder()
	msg, err := decoder.Decode(service.RawMessage{UID: 1, Raw: raw})
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "good part")
}

func TestDecodeTimestampPrefersInternalDate(t *testing.T) {
	raw := rawMessage(t, `From: orders@somestore.com
Subject: shipped
Date: Mon, 17 Aug 2026 10:00:00 +0000
Content-Type: text/plain

hello
`)

	internal := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	decoder := NewDecoder()

	msg, err := decoder.Decode(service.RawMessage{UID: 1, Raw: raw, InternalDate: internal})
	require.NoError(t, err)
	assert.Equal(t, internal, msg.Timestamp)

	// Without an internal date the header Date is used.
	msg, err = decoder.Decode(service.RawMessage{UID: 1, Raw: raw})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 17, 10, 0, 0, 0, time.UTC), msg.Timestamp.UTC())
}
