package mail

import (
	"fmt"
	"io"
	"net"
	"rfp-ai-go/internal/config"
	"rfp-ai-go/pkg/log"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"
)

// Message 是从邮箱取回的一封已规范化的邮件。
type Message struct {
	From    string
	Subject string
	Body    string
}

// Inbox defines the interface for the inbound mail transport.
// FetchUnseen 只返回未读邮件；取件动作本身会把邮件标记为已读，
// 因此对已读邮件重复调用是幂等的（服务器不会再次返回它们）。
type Inbox interface {
	FetchUnseen() ([]Message, error)
}

type imapInbox struct {
	cfg config.IMAPConfig
}

// NewInbox creates a new IMAP-backed Inbox.
func NewInbox(cfg config.IMAPConfig) Inbox {
	return &imapInbox{cfg: cfg}
}

// FetchUnseen 连接邮箱、检索 UNSEEN 邮件并取回正文。
func (i *imapInbox) FetchUnseen() ([]Message, error) {
	timeout := time.Duration(i.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	addr := fmt.Sprintf("%s:%d", i.cfg.Host, i.cfg.Port)
	c, err := client.DialWithDialerTLS(&net.Dialer{Timeout: timeout}, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to imap server: %w", err)
	}
	defer c.Logout()

	if err := c.Login(i.cfg.Username, i.cfg.Password); err != nil {
		return nil, fmt.Errorf("failed to login to imap server: %w", err)
	}

	mailbox := i.cfg.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, false); err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search unseen messages: %w", err)
	}
	if len(ids) == 0 {
		log.Info("[MailInbox] 没有未读邮件")
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	// 非 PEEK 的 BODY[] 取件会顺带打上 \Seen 标记，
	// 所以无论下游解析成败，邮件都只会被消费一次。
	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	msgCh := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, msgCh)
	}()

	var messages []Message
	for msg := range msgCh {
		m := Message{}
		if msg.Envelope != nil {
			m.Subject = msg.Envelope.Subject
			if len(msg.Envelope.From) > 0 {
				m.From = msg.Envelope.From[0].Address()
			}
		}
		if r := msg.GetBody(section); r != nil {
			m.Body = extractTextBody(r)
		}
		messages = append(messages, m)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	log.Infof("[MailInbox] 取回 %d 封未读邮件", len(messages))
	return messages, nil
}

// extractTextBody 从原始报文中提取 text/plain 正文；
// MIME 解析失败时退化为整个报文的文本。
func extractTextBody(r io.Reader) string {
	mr, err := gomail.CreateReader(r)
	if err != nil {
		raw, _ := io.ReadAll(r)
		return string(raw)
	}

	var fallback string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		if h, ok := part.Header.(*gomail.InlineHeader); ok {
			contentType, _, _ := h.ContentType()
			body, readErr := io.ReadAll(part.Body)
			if readErr != nil {
				continue
			}
			if strings.HasPrefix(contentType, "text/plain") {
				return string(body)
			}
			if fallback == "" {
				fallback = string(body)
			}
		}
	}
	return fallback
}
