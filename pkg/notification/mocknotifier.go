package notification

// MockNotifier records sent notifications for use in tests.
type MockNotifier struct {
	SentNotifications []NotificationData
	SentNoticeTypes   []NoticeType
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	m.SentNotifications = append(m.SentNotifications, notification)
	m.SentNoticeTypes = append(m.SentNoticeTypes, noticeType)
	return nil
}
