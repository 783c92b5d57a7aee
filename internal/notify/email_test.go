package notify

import (
	"bytes"
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeSMTPServer speaks just enough unauthenticated SMTP for one
// delivery and records the DATA payload.
func fakeSMTPServer(t *testing.T) (addr string, received *bytes.Buffer, done chan struct{}) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	done = make(chan struct{})
	go func() {
		defer close(done)
		defer ln.Close()

		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tc := textproto.NewConn(conn)
		tc.PrintfLine("220 127.0.0.1 ESMTP test")

		inData := false
		for {
			line, err := tc.ReadLine()
			if err != nil {
				return
			}
			if inData {
				if line == "." {
					inData = false
					tc.PrintfLine("250 2.0.0 OK")
					continue
				}
				buf.WriteString(line)
				buf.WriteByte('\n')
				continue
			}
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				tc.PrintfLine("250 127.0.0.1")
			case strings.HasPrefix(line, "MAIL FROM"):
				tc.PrintfLine("250 2.1.0 OK")
			case strings.HasPrefix(line, "RCPT TO"):
				tc.PrintfLine("250 2.1.5 OK")
			case line == "DATA":
				tc.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
				inData = true
			case line == "QUIT":
				tc.PrintfLine("221 2.0.0 Bye")
				return
			default:
				tc.PrintfLine("250 OK")
			}
		}
	}()
	return ln.Addr().String(), buf, done
}

func TestEmailNotifyUpdate(t *testing.T) {
	addr, received, done := fakeSMTPServer(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	notifier, err := NewEmailNotifier(EmailConfig{
		Host: host,
		Port: port,
		From: "outage-bot@example.test",
		To:   "ops@example.test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, notifier.NotifyUpdate(context.Background(), sampleUpdate(t)))
	<-done

	msg := received.String()
	assert.Contains(t, msg, "From: outage-bot@example.test")
	assert.Contains(t, msg, "To: ops@example.test")
	assert.Contains(t, msg, "Subject: Power outage schedule updated: 2024-03-14 (Queue 1)")
	assert.Contains(t, msg, "Detected schedule update.")
	assert.Contains(t, msg, "- 2024-03-14 08:00 EET -> 2024-03-14 12:00 EET")
}

func TestNewEmailNotifierValidation(t *testing.T) {
	log := zaptest.NewLogger(t)

	_, err := NewEmailNotifier(EmailConfig{To: "ops@example.test", From: "a@b"}, log)
	require.Error(t, err, "missing host")

	_, err = NewEmailNotifier(EmailConfig{Host: "smtp.test", From: "a@b"}, log)
	require.Error(t, err, "missing recipient")

	_, err = NewEmailNotifier(EmailConfig{Host: "smtp.test", To: "ops@example.test"}, log)
	require.Error(t, err, "missing sender")
}

func TestNewEmailNotifierFallsBackToUsername(t *testing.T) {
	notifier, err := NewEmailNotifier(EmailConfig{
		Host:     "smtp.test",
		To:       "ops@example.test",
		Username: "bot@example.test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "bot@example.test", notifier.from)
}
