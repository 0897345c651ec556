package email

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fullscope-site-backend/config"
	"fullscope-site-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTP answers one scripted SMTP dialogue per connection
type fakeSMTP struct {
	extensions []string // advertised after EHLO
	authReply  string   // reply line to AUTH

	mu       sync.Mutex
	commands []string
	data     bytes.Buffer
}

func (f *fakeSMTP) serve(t *testing.T, ln net.Listener) {
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.handle(conn)
		}
	}()
}

func (f *fakeSMTP) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	r := bufio.NewReader(conn)
	reply := func(lines ...string) {
		_, _ = conn.Write([]byte(strings.Join(lines, "\r\n") + "\r\n"))
	}

	reply("220 fake.local ESMTP ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		f.mu.Lock()
		f.commands = append(f.commands, verb)
		f.mu.Unlock()

		switch verb {
		case "EHLO":
			lines := []string{"250-fake.local"}
			for _, ext := range f.extensions {
				lines = append(lines, "250-"+ext)
			}
			lines[len(lines)-1] = "250 " + strings.TrimPrefix(lines[len(lines)-1], "250-")
			reply(lines...)
		case "AUTH":
			reply(f.authReply)
		case "*":
			reply("501 5.7.0 authentication cancelled")
		case "DATA":
			reply("354 go ahead")
			for {
				body, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(body, "\r\n") == "." {
					break
				}
				f.mu.Lock()
				f.data.WriteString(body)
				f.mu.Unlock()
			}
			reply("250 2.0.0 queued")
		case "QUIT":
			reply("221 2.0.0 bye")
			return
		default:
			reply("250 2.0.0 ok")
		}
	}
}

func (f *fakeSMTP) sawCommand(verb string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.commands {
		if c == verb {
			return true
		}
	}
	return false
}

func (f *fakeSMTP) message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.String()
}

// tlsListener serves the httptest certificate on a loopback port and
// returns a pool that trusts it.
func tlsListener(t *testing.T) (net.Listener, *x509.CertPool) {
	certSrv := httptest.NewTLSServer(nil)
	certs := certSrv.TLS.Certificates
	pool := x509.NewCertPool()
	pool.AddCert(certSrv.Certificate())
	certSrv.Close()

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: certs})
	require.NoError(t, err)
	return ln, pool
}

func listenerPort(ln net.Listener) int {
	return ln.Addr().(*net.TCPAddr).Port
}

// implicitTLSTransport points an SSL transport at a fake server on ln
func implicitTLSTransport(ln net.Listener, pool *x509.CertPool) *SMTPTransport {
	tr := NewSMTPTransport(config.SMTPSettings{
		Host:        "127.0.0.1",
		Port:        listenerPort(ln),
		Username:    "ry@fullscope-media.com",
		Password:    "pw",
		ImplicitTLS: true,
	}, 2*time.Second)
	tr.tlsConfig.RootCAs = pool
	return tr
}

func TestSMTPTLSMode(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		wantMode string
	}{
		{"Should use implicit TLS on 465", "465", smtpModeSSL},
		{"Should require STARTTLS on 587", "587", smtpModeSTARTTLS},
		{"Should require STARTTLS on 25", "25", smtpModeSTARTTLS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				EmailServerHost:     "smtp.office365.com",
				EmailServerPort:     tt.port,
				EmailServerUser:     "ry@fullscope-media.com",
				EmailServerPassword: "pw",
			}
			settings, err := cfg.ResolveSMTP()
			require.NoError(t, err)

			tr := NewSMTPTransport(settings, time.Second)
			assert.Equal(t, tt.wantMode, tr.tlsMode())
			assert.Len(t, tr.clientOptions(), 7)
		})
	}
}

func TestSMTPTransportUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listenerPort(ln)
	require.NoError(t, ln.Close())

	tr := NewSMTPTransport(config.SMTPSettings{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "ry@fullscope-media.com",
		Password: "pw",
	}, time.Second)

	t.Run("Should report a send failure", func(t *testing.T) {
		err := tr.Send(context.Background(), testMessage())
		var de *DeliveryError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, ProviderSMTP, de.Provider)
		assert.Equal(t, "send", de.Command)
		assert.Zero(t, de.Code)
	})

	t.Run("Should report a dial failure on verify", func(t *testing.T) {
		err := tr.Verify(context.Background())
		var de *DeliveryError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "dial", de.Command)
	})
}

func TestSMTPTransportRequiresSTARTTLS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &fakeSMTP{extensions: []string{"AUTH PLAIN LOGIN"}, authReply: "235 2.7.0 accepted"}
	srv.serve(t, ln)

	tr := NewSMTPTransport(config.SMTPSettings{
		Host:     "127.0.0.1",
		Port:     listenerPort(ln),
		Username: "ry@fullscope-media.com",
		Password: "pw",
	}, 2*time.Second)

	err = tr.Verify(context.Background())
	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "dial", de.Command)
	assert.True(t, srv.sawCommand("EHLO"))
	assert.False(t, srv.sawCommand("AUTH"), "credentials must not cross a plaintext connection")
}

func TestSMTPTransportAuthRejected(t *testing.T) {
	ln, pool := tlsListener(t)
	srv := &fakeSMTP{
		extensions: []string{"AUTH PLAIN LOGIN"},
		authReply:  "535 5.7.8 Username and Password not accepted",
	}
	srv.serve(t, ln)

	err := implicitTLSTransport(ln, pool).Verify(context.Background())
	var de *DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "dial", de.Command)
	assert.Equal(t, 535, de.Code)
	assert.Equal(t, "5.7.8 Username and Password not accepted", de.Response)
	assert.Equal(t, map[string]interface{}{
		"code":     535,
		"response": "5.7.8 Username and Password not accepted",
		"command":  "dial",
	}, Details(err))
}

func TestSMTPTransportSend(t *testing.T) {
	t.Run("Should deliver with Reply-To set to the submitter", func(t *testing.T) {
		ln, pool := tlsListener(t)
		srv := &fakeSMTP{extensions: []string{"AUTH PLAIN LOGIN"}, authReply: "235 2.7.0 accepted"}
		srv.serve(t, ln)

		tr := implicitTLSTransport(ln, pool)
		require.NoError(t, tr.Verify(context.Background()))
		require.NoError(t, tr.Send(context.Background(), testMessage()))

		data := srv.message()
		assert.Contains(t, data, "Subject: New inquiry from Jo")
		assert.Contains(t, data, "Reply-To: <jo@x.com>")
		assert.Contains(t, data, "multipart/alternative")
	})

	t.Run("Should deliver without Reply-To when the address does not parse", func(t *testing.T) {
		ln, pool := tlsListener(t)
		srv := &fakeSMTP{extensions: []string{"AUTH PLAIN LOGIN"}, authReply: "235 2.7.0 accepted"}
		srv.serve(t, ln)

		msg := testMessage()
		msg.ReplyTo = "a,b@x.com"
		require.True(t, validation.IsSimpleEmail(msg.ReplyTo))

		require.NoError(t, implicitTLSTransport(ln, pool).Send(context.Background(), msg))
		data := srv.message()
		assert.Contains(t, data, "Subject: New inquiry from Jo")
		assert.NotContains(t, data, "Reply-To")
	})
}

func TestSMTPBuildMsgSkipsUnparseableReplyTo(t *testing.T) {
	for _, addr := range []string{"a,b@x.com", `jo"x@y.com`, "jo(x@y.com", "<jo>@y.com", "jo;x@y.com"} {
		t.Run(addr, func(t *testing.T) {
			require.True(t, validation.IsSimpleEmail(addr))

			msg := testMessage()
			msg.ReplyTo = addr
			m, err := buildMsg(msg)
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = m.WriteTo(&buf)
			require.NoError(t, err)
			assert.NotContains(t, buf.String(), "Reply-To")
			assert.Contains(t, buf.String(), "New inquiry from Jo")
		})
	}
}
