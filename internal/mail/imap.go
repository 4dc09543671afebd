// Package mail fetches and decodes shipment emails over IMAP.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/parcelflow/parcelflow/internal/common"
	"github.com/parcelflow/parcelflow/internal/service"
)

// FetcherOptions configures the IMAP connection.
type FetcherOptions struct {
	Host        string
	Username    string
	Password    string
	Folder      string
	Port        int
	DialTimeout time.Duration
}

// Fetcher retrieves raw messages from an IMAP mailbox. Each Fetch opens a
// fresh connection; shipment scans are infrequent enough that holding a
// session open buys nothing.
type Fetcher struct {
	opts FetcherOptions
}

// NewFetcher creates an IMAP fetcher.
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Port == 0 {
		opts.Port = 993
	}
	if opts.Folder == "" {
		opts.Folder = "INBOX"
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 30 * time.Second
	}
	return &Fetcher{opts: opts}
}

// Fetch returns every message received since the given time, with its raw
// RFC 822 body and server-side internal date.
func (f *Fetcher) Fetch(ctx context.Context, since time.Time) ([]service.RawMessage, error) {
	var client *imapclient.Client

	dial := func() error {
		c, err := f.dial(ctx)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		client = c
		return nil
	}
	if err := common.WithRetry(ctx, dial, service.RetryOptions{MaxAttempts: 3}); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMailConnection, err)
	}
	defer func() {
		_ = client.Logout().Wait()
		_ = client.Close()
	}()

	if err := client.Login(f.opts.Username, f.opts.Password).Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMailAuth, err)
	}

	if _, err := client.Select(f.opts.Folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("select %s: %w", f.opts.Folder, err)
	}

	criteria := &imap.SearchCriteria{Since: since}
	data, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", common.ErrFetchFailed, err)
	}

	uids := data.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	slog.Debug("fetching messages", "folder", f.opts.Folder, "count", len(uids))

	fetchOpts := &imap.FetchOptions{
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{{}},
	}
	buffers, err := client.Fetch(imap.UIDSetNum(uids...), fetchOpts).Collect()
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", common.ErrFetchFailed, err)
	}

	messages := make([]service.RawMessage, 0, len(buffers))
	for _, buf := range buffers {
		raw := buf.FindBodySection(&imap.FetchItemBodySection{})
		if raw == nil {
			slog.Warn("message without body section", "uid", uint32(buf.UID))
			continue
		}
		messages = append(messages, service.RawMessage{
			UID:          uint32(buf.UID),
			Raw:          raw,
			InternalDate: buf.InternalDate,
		})
	}
	return messages, nil
}

func (f *Fetcher) dial(ctx context.Context) (*imapclient.Client, error) {
	address := net.JoinHostPort(f.opts.Host, strconv.Itoa(f.opts.Port))

	dialer := &net.Dialer{Timeout: f.opts.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial imap %s: %w", address, err)
	}

	tlsConn := tls.Client(conn, &tls.Config{ServerName: f.opts.Host})
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake %s: %w", address, err)
	}

	return imapclient.New(tlsConn, &imapclient.Options{}), nil
}
