package handler

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/logtools-dev/logtools/core"
	"github.com/logtools-dev/logtools/formatter"
	"github.com/logtools-dev/logtools/metrics"
)

// Sender delivers a rendered log message to recipients. The mail
// handler talks to SMTP through this seam so tests can capture sends.
type Sender interface {
	Send(to []string, subject, body string) error
}

// DefaultSubjectPrefix is the template for the leading portion of the
// mail subject. It renders against formatter.PatternView.
const DefaultSubjectPrefix = "[{{.FQDN}}] {{.Program}}: "

const maxRetryBackoff = 32 * time.Second

// smtpSender sends through gomail with retry and exponential backoff.
type smtpSender struct {
	dialer        *gomail.Dialer
	senderAddress string
	senderName    string
	retryCount    int
	retryBackoff  time.Duration
}

func newSMTPSender(cfg MailConfig) *smtpSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	senderAddr := cfg.SenderAddress
	if senderAddr == "" {
		senderAddr = cfg.Username
	}
	if senderAddr == "" {
		senderAddr = "noreply@" + core.FQDN()
	}
	senderName := cfg.SenderName
	if senderName == "" {
		senderName = core.Program()
	}

	retryCount := cfg.RetryCount
	if retryCount <= 0 {
		retryCount = 3
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 100 * time.Millisecond
	}

	return &smtpSender{
		dialer:        d,
		senderAddress: senderAddr,
		senderName:    senderName,
		retryCount:    retryCount,
		retryBackoff:  retryBackoff,
	}
}

func (s *smtpSender) Send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.senderAddress, s.senderName)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	var lastErr error
	backoff := s.retryBackoff

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		err := s.dialer.DialAndSend(msg)
		if err == nil {
			metrics.MailSendSuccess.WithLabelValues(s.dialer.Host).Inc()
			return nil
		}
		lastErr = err
		if attempt < s.retryCount {
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxRetryBackoff {
				backoff = maxRetryBackoff
			}
		}
	}

	metrics.MailSendFailure.WithLabelValues(s.dialer.Host).Inc()
	return lastErr
}

// MailHandler mails log entries at or above a threshold level to a
// configured set of recipients. Send failures never reach the logging
// call site; they go to the handler error output and the failure
// counter.
type MailHandler struct {
	sender    Sender
	formatter formatter.Formatter
	to        []string
	prefix    *formatter.PatternFormatter
	minLevel  core.Level
	minPause  time.Duration

	mu       sync.Mutex
	lastSend time.Time

	q     *asyncQueue
	stats *Stats

	// now is replaced in tests to exercise the quiet period.
	now func() time.Time
}

// NewMailHandler builds a mail handler from the given configuration.
// Configuration problems (no recipients, no host, a subject prefix
// that does not parse) are reported here; nothing fails at log time.
func NewMailHandler(cfg MailConfig) (*MailHandler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	f := cfg.Formatter
	if f == nil {
		var err error
		f, err = formatter.NewLevelPatternFormatter("", formatter.DefaultLevelPatterns())
		if err != nil {
			return nil, err
		}
	}

	prefixPattern := cfg.SubjectPrefix
	if prefixPattern == "" {
		prefixPattern = DefaultSubjectPrefix
	}
	prefix, err := formatter.NewPatternFormatter(prefixPattern)
	if err != nil {
		return nil, fmt.Errorf("handler: subject prefix: %w", err)
	}

	sender := cfg.Sender
	if sender == nil {
		sender = newSMTPSender(cfg)
	}

	h := &MailHandler{
		sender:    sender,
		formatter: f,
		to:        cfg.To,
		prefix:    prefix,
		minLevel:  cfg.MinLevel,
		minPause:  cfg.MinPause,
		stats:     NewStats(),
		now:       time.Now,
	}

	if cfg.Async {
		h.q = newAsyncQueue(cfg.BufferSize, cfg.OverflowPolicy,
			cfg.BlockTimeout, cfg.DrainTimeout, h.stats, h.deliver)
	}

	return h, nil
}

// Handle mails the entry when it reaches the threshold level.
// Dispatch failures never propagate to the logging call site; they
// are reported on the handler error output instead.
func (h *MailHandler) Handle(entry *core.Entry) error {
	if entry.Level < h.minLevel {
		h.stats.IncrementSuppressed()
		metrics.MailSuppressed.WithLabelValues("below_level").Inc()
		return nil
	}
	if h.q == nil {
		return h.deliver(entry)
	}
	return h.q.enqueue(entry)
}

// deliver renders and sends a single entry.
func (h *MailHandler) deliver(entry *core.Entry) error {
	var prevSend time.Time
	reserved := false
	if h.minPause > 0 {
		// Reserve the quiet period before releasing the lock, so a
		// concurrent entry is suppressed while this send is still in
		// flight.
		h.mu.Lock()
		now := h.now()
		if !h.lastSend.IsZero() && now.Sub(h.lastSend) < h.minPause {
			h.mu.Unlock()
			h.stats.IncrementSuppressed()
			metrics.MailSuppressed.WithLabelValues("min_pause").Inc()
			return nil
		}
		prevSend = h.lastSend
		h.lastSend = now
		reserved = true
		h.mu.Unlock()
	}

	release := func() {
		if reserved {
			h.mu.Lock()
			h.lastSend = prevSend
			h.mu.Unlock()
		}
	}

	subject, body, err := h.render(entry)
	if err != nil {
		release()
		reportError("mail render", err)
		return nil
	}

	if err := h.sender.Send(h.to, subject, body); err != nil {
		release()
		reportError("mail send", err)
		return nil
	}

	h.stats.IncrementProcessed()
	return nil
}

// render builds the mail subject and body for an entry.
//
// The subject starts with the rendered prefix followed by the first
// line of the message. An entry error adds an "[EXC]" tag plus the
// error text; when the error is a core.ErrInfo the body leads with
// its stack-level rendering.
func (h *MailHandler) render(entry *core.Entry) (subject, body string, err error) {
	data, err := h.formatter.Format(entry)
	if err != nil {
		return "", "", err
	}
	body = string(data)

	prefixBytes, err := h.prefix.Format(entry)
	if err != nil {
		return "", "", err
	}
	prefix := strings.TrimRight(string(prefixBytes), "\n")

	firstLine := entry.Message
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}

	if entry.Err == nil {
		return prefix + firstLine, body, nil
	}

	var ei *core.ErrInfo
	if errors.As(entry.Err, &ei) {
		if firstLine == "" {
			subject = fmt.Sprintf("%s[EXC] %s", prefix, ei.Render(core.VerbosityMessage))
		} else {
			subject = fmt.Sprintf("%s[EXC] %s -- %s", prefix, firstLine, ei.Render(core.VerbosityMessage))
		}
		body = ei.Render(core.VerbosityStack) + "\n\n" + body
		return subject, body, nil
	}

	subject = fmt.Sprintf("%s[EXC] %s -- %s", prefix, firstLine, entry.Err.Error())
	return subject, body, nil
}

// CanRecycleEntry returns true: the async queue copies the entry on
// enqueue, so the handler never retains the caller's entry.
func (h *MailHandler) CanRecycleEntry() bool {
	return true
}

// Stats returns a snapshot of the current statistics.
func (h *MailHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the async queue, if any.
func (h *MailHandler) Close() error {
	if h.q != nil {
		h.q.close()
	}
	return nil
}
