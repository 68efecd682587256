package notification

// NotificationData carries the recipient and template variables for a
// single outgoing notice.
type NotificationData struct {
	To      string            // Recipient identifier (e.g., email address)
	Subject string            // Optional subject override
	Body    string            // Optional pre-rendered body
	Data    map[string]string // Template variables
}

// NoticeTemplate holds the subject and body templates for a notice. Text
// and Html are Go text templates; either may be empty.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
