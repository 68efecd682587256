// Package notification delivers notices to users over pluggable channels.
//
// A NotificationManager pairs delivery systems (currently SMTP email via
// go-mail) with a registry of notice templates. Callers register notifiers
// and templates through functional options, then call Send with a notice
// type and the per-recipient template data:
//
//	nm, err := notification.NewNotificationManagerWithOptions(
//		"https://app.example.com",
//		notification.WithSMTP(smtpConfig),
//		notification.WithDefaultTemplates(),
//	)
//	if err != nil {
//		// handle error
//	}
//	err = nm.Send(notification.EmailConfirmationNotice, notification.EmailSystem,
//		notification.NotificationData{
//			To:   "user@example.com",
//			Data: map[string]string{"Name": "Pat", "ConfirmationLink": link},
//		})
//
// Templates are Go html/template documents embedded in the binary. Tests
// can swap in MockNotifier to capture sends without SMTP.
package notification
